// Package upstream builds the lazily-constructed upstream HTTP clients (sensor,
// analysis, grid-read, grid-upload) the execution context hands to user model code,
// and the authority-keyed client cache they share (spec.md §3, §4.3).
package upstream

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// Auth is the resolved authentication method for an upstream client: API-key auth
// takes precedence over basic auth, and neither is required (spec.md §4.3).
type Auth struct {
	APIKey   string
	Username string
	Password string
}

// Kind reports which auth scheme (if any) is configured.
type Kind int

const (
	NoAuth Kind = iota
	APIKeyAuth
	BasicAuth
)

func (a *Auth) Kind() Kind {
	switch {
	case a == nil:
		return NoAuth
	case a.APIKey != "":
		return APIKeyAuth
	case a.Username != "" || a.Password != "":
		return BasicAuth
	default:
		return NoAuth
	}
}

// ResolveServiceConfig merges a job request's service config into a concrete
// (url, host, apiRoot, auth, verifyTLS) tuple: parse url (default scheme http),
// override component-by-component from the remaining fields, then re-assemble
// (spec.md §4.3 "resolveServiceConfig"; grounded on the original implementation's
// util.resolve_service_config).
func ResolveServiceConfig(cfg *jobapi.ServiceConfig) (resolvedURL, host, apiRoot string, auth *Auth, verify bool, err error) {
	if cfg == nil {
		cfg = &jobapi.ServiceConfig{}
	}

	raw := cfg.URL
	if raw == "" {
		raw = "http://"
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, parseErr := url.Parse(raw)
	if parseErr != nil {
		return "", "", "", nil, false, fmt.Errorf("resolveServiceConfig: parse url %q: %w", cfg.URL, parseErr)
	}

	scheme := u.Scheme
	if cfg.Scheme != "" {
		scheme = cfg.Scheme
	}

	host = u.Host
	if cfg.Host != "" {
		host = cfg.Host
	}
	if cfg.Port != 0 {
		hostOnly := host
		if i := strings.IndexByte(host, ':'); i >= 0 {
			hostOnly = host[:i]
		}
		host = fmt.Sprintf("%s:%d", hostOnly, cfg.Port)
	}

	apiRoot = u.Path
	if cfg.APIRoot != "" {
		apiRoot = cfg.APIRoot
	}

	resolved := url.URL{Scheme: scheme, Host: host, Path: apiRoot}
	resolvedURL = resolved.String()

	if cfg.APIKey != "" {
		auth = &Auth{APIKey: cfg.APIKey}
	} else if cfg.Username != "" || cfg.Password != "" {
		auth = &Auth{Username: cfg.Username, Password: cfg.Password}
	}

	return resolvedURL, host, apiRoot, auth, cfg.VerifyTLS(), nil
}
