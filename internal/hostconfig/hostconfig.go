// Package hostconfig loads the optional host-level YAML configuration file:
// bind address, model path, and default log level, grounded on the teacher's
// use of gopkg.in/yaml.v3 for its own scenario configuration (pkg/config).
package hostconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// Config is the host's optional on-disk configuration. BindAddress and
// ModelPath may also be set by a command-line flag, which takes precedence
// (cmd/modelhost applies the file first, then flags); LogLevel has no flag.
type Config struct {
	BindAddress string          `yaml:"bindAddress"`
	ModelPath   string          `yaml:"modelPath"`
	LogLevel    jobapi.LogLevel `yaml:"logLevel"`
}

// Default returns the host's built-in defaults, used when no config file is given.
func Default() Config {
	return Config{
		BindAddress: "0.0.0.0:8080",
		LogLevel:    jobapi.Info,
	}
}

// Load reads and parses the YAML config file at path.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("hostconfig: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("hostconfig: parse %q: %w", path, err)
	}
	return cfg, nil
}
