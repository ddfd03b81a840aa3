package retry

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// rfc7231Timestamp is the HTTP-date layout used by Retry-After (and friends),
// always in GMT (spec.md §4.1).
const rfc7231Timestamp = "Mon, 02 Jan 2006 15:04:05 GMT"

// kongHalfPeriodBackoffs lists the Kong-style X-RateLimit-Remaining-* headers in
// documented precedence order, paired with the half-period backoff to apply when
// the header's value is exactly "0" (spec.md §4.1; original implementation's
// kong_support.py / api_support.py _X_RATE_LIMIT_BACKOFFS).
var kongHalfPeriodBackoffs = []struct {
	header  string
	backoff time.Duration
}{
	{"X-RateLimit-Remaining-Second", 500 * time.Millisecond},
	{"X-RateLimit-Remaining-Minute", 30 * time.Second},
	{"X-RateLimit-Remaining-Hour", 1800 * time.Second},
}

// ParseRetryDelay parses a Retry-After/RateLimit-Reset header value. It accepts a
// non-negative number of seconds, or an RFC-7231 HTTP-date (always GMT); the date
// form returns max(0, target-now) relative to the supplied now.
func ParseRetryDelay(value string, now time.Time) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs < 0 {
			secs = 0
		}
		return time.Duration(secs * float64(time.Second)), nil
	}

	target, err := time.Parse(rfc7231Timestamp, value)
	if err != nil {
		return 0, &ErrUnparseableDelay{Value: value}
	}

	delay := target.Sub(now)
	if delay < 0 {
		delay = 0
	}
	return delay, nil
}

// ErrUnparseableDelay is returned when a delay header is neither a number of
// seconds nor an RFC-7231 timestamp.
type ErrUnparseableDelay struct{ Value string }

func (e *ErrUnparseableDelay) Error() string {
	return "retry: unable to parse delay header value " + e.Value
}

// BackoffFromHeaders inspects response headers in the documented precedence order
// (spec.md §4.1) and returns the first backoff it can derive, or ok=false if none
// of the recognized headers are present. Header matching is case-insensitive
// (http.Header already normalizes to canonical form, and Get is case-insensitive).
func BackoffFromHeaders(h http.Header, now time.Time) (time.Duration, bool) {
	for _, name := range []string{"Retry-After", "RateLimit-Reset"} {
		if v := h.Get(name); v != "" {
			if d, err := ParseRetryDelay(v, now); err == nil {
				return d, true
			}
		}
	}

	for _, kb := range kongHalfPeriodBackoffs {
		if strings.TrimSpace(h.Get(kb.header)) == "0" {
			return kb.backoff, true
		}
	}

	return 0, false
}
