package retry

import (
	"net/http"
	"strings"
	"time"
)

// PoolTransport adapts the same retry policy to connection-pool-level retry,
// driven by the HTTP client's internal RoundTrip hook rather than by re-entering
// user code (spec.md §4.1 "Low-level integration"). It retries only on transport
// errors whose text marks a transient connection failure (see isPoolRetryable) — never
// on successful responses with a retryable status, since that budget belongs to
// the outer Do() wrapper (spec.md §9 "Retry policy re-entrancy": application
// wrapper outer, connection retries inner, budgets independent).
type PoolTransport struct {
	Base    http.RoundTripper
	Retries int
}

// NewPoolTransport wraps base with connection-level retry. If base is nil,
// http.DefaultTransport is used.
func NewPoolTransport(base http.RoundTripper, retries int) *PoolTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if retries <= 0 {
		retries = 3
	}
	return &PoolTransport{Base: base, Retries: retries}
}

func (t *PoolTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= t.Retries; attempt++ {
		resp, err := t.Base.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isPoolRetryable(err) {
			return nil, err
		}
		if attempt < t.Retries {
			time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
		}
	}
	return nil, lastErr
}

// isPoolRetryable reports whether err looks like a transient connection-pool
// failure worth retrying beneath the application-level policy (grounded on the
// teacher's attacker-engine isRetryableError pattern of matching on error text,
// since Go's http.Transport does not expose a typed taxonomy for these cases).
func isPoolRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection reset",
		"connection refused",
		"broken pipe",
		"eof",
		"i/o timeout",
		"no such host",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
