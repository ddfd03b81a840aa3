package upstream

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

// TransportOptions controls the HTTP transport built for an upstream client.
// Mirrors the teacher's attacker-engine transport construction (http2 with
// fallback, idle-connection tuning, TLS verification toggle).
type TransportOptions struct {
	VerifyTLS bool
	Timeout   time.Duration
}

// NewTransport builds an http.RoundTripper with HTTP/2 negotiated via ALPN and
// automatic fallback to HTTP/1.1, the same construction the teacher's attack
// engine and debug runner use for outbound calls.
func NewTransport(opts TransportOptions) http.RoundTripper {
	transport := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: !opts.VerifyTLS},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	_ = http2.ConfigureTransport(transport) // best-effort; falls back to HTTP/1.1 on failure

	if opts.Timeout > 0 {
		transport.ResponseHeaderTimeout = opts.Timeout
	}

	return transport
}

// Paced wraps a RoundTripper with a per-authority rate limiter so a burst of
// retryable calls from one misbehaving service can't starve the others. Grounded
// on the teacher's use of golang.org/x/time/rate to pace attack workers.
type Paced struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// NewPaced wraps base with a token-bucket limiter allowing up to ratePerSecond
// requests/sec with a burst of one more than that rate (defaulting to 50/sec
// when ratePerSecond is not positive).
func NewPaced(base http.RoundTripper, ratePerSecond float64) *Paced {
	if ratePerSecond <= 0 {
		ratePerSecond = 50
	}
	return &Paced{base: base, limiter: rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1)}
}

func (p *Paced) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := p.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return p.base.RoundTrip(req)
}
