package hostconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.BindAddress != "0.0.0.0:8080" {
		t.Fatalf("BindAddress = %q, want 0.0.0.0:8080", cfg.BindAddress)
	}
	if cfg.LogLevel != jobapi.Info {
		t.Fatalf("LogLevel = %q, want INFO", cfg.LogLevel)
	}
}

func TestLoadOverridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "host.yaml")
	contents := "bindAddress: 127.0.0.1:9090\nmodelPath: /models/demo\nlogLevel: DEBUG\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddress != "127.0.0.1:9090" {
		t.Fatalf("BindAddress = %q, want 127.0.0.1:9090", cfg.BindAddress)
	}
	if cfg.ModelPath != "/models/demo" {
		t.Fatalf("ModelPath = %q, want /models/demo", cfg.ModelPath)
	}
	if cfg.LogLevel != jobapi.Debug {
		t.Fatalf("LogLevel = %q, want DEBUG", cfg.LogLevel)
	}
}

func TestLoadPartialFileKeepsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "host.yaml")
	if err := os.WriteFile(path, []byte("modelPath: /models/demo\n"), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddress != "0.0.0.0:8080" {
		t.Fatalf("BindAddress = %q, want default to survive a partial file", cfg.BindAddress)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() expected an error for a missing file")
	}
}
