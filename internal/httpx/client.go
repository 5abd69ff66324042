// Package httpx builds the outbound clients used for every collaborator.
package httpx

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"artisthub/videosearch/internal/metrics"
)

type ClientConfig struct {
	// Name labels spans and the limiter wait metric.
	Name    string
	Timeout time.Duration
	RPS     float64
	Burst   int
	// Base is the innermost transport; nil uses a clone of the default.
	Base http.RoundTripper
}

// NewClient returns a traced client. A positive RPS adds a token bucket shared
// by every request made through the client.
func NewClient(cfg ClientConfig) *http.Client {
	transport := cfg.Base
	if transport == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.ForceAttemptHTTP2 = true
		// Avoid picking up unrelated container/host proxy environment variables.
		base.Proxy = nil
		transport = base
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		transport = &limitedTransport{
			name:    cfg.Name,
			next:    transport,
			limiter: rate.NewLimiter(rate.Limit(cfg.RPS), burst),
		}
	}

	name := cfg.Name
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: otelhttp.NewTransport(transport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return name + " " + r.Method
			}),
		),
	}
}

type limitedTransport struct {
	name    string
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	metrics.OutboundWaitDuration.WithLabelValues(t.name).Observe(time.Since(started).Seconds())
	return t.next.RoundTrip(req)
}
