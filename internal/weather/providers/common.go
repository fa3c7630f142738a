package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// PacingConfig bounds the outbound request rate to a provider.
// A zero RPS disables pacing.
type PacingConfig struct {
	RPS   float64
	Burst int
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client *http.Client
	Pacing PacingConfig
}

var (
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// endpoint is the per-provider plumbing shared by every client in this package.
type endpoint struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func newEndpoint(name, baseURL string, cfg HTTPClientConfig) endpoint {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	limit := rate.Inf
	burst := cfg.Pacing.Burst
	if cfg.Pacing.RPS > 0 {
		limit = rate.Limit(cfg.Pacing.RPS)
	}
	if burst <= 0 {
		burst = 1
	}

	return endpoint{
		name:    name,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: cb,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// doRequest executes a single attempt through the pacing limiter and
// circuit breaker. Non-2xx responses are failures; there is no retry.
func doRequest(ctx context.Context, e endpoint, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if e.httpCfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := e.circuit.Execute(func() (interface{}, error) {
		resp, execErr := e.httpCfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
