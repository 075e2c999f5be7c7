package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultSearxngTimeout = 10 * time.Second
	maxSearxngBodyBytes   = 2 * 1024 * 1024
)

type SearxngConfig struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is the number of requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
	Client    *http.Client
}

// SearxngDriver queries a SearXNG instance through its JSON search endpoint.
type SearxngDriver struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewSearxngDriver(cfg SearxngConfig) *SearxngDriver {
	httpClient := cfg.Client
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultSearxngTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &SearxngDriver{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:    httpClient,
		limiter: limiter,
	}
}

func (d *SearxngDriver) Search(ctx context.Context, query string) (*SearxngResponse, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, &DriverError{Op: "SearxngSearch", Err: "rate limiter: " + err.Error()}
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, &DriverError{Op: "SearxngSearch", Err: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, &DriverError{Op: "SearxngSearch", Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &DriverError{
			Op:         "SearxngSearch",
			Err:        fmt.Sprintf("searxng HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearxngBodyBytes))
	if err != nil {
		return nil, &DriverError{Op: "SearxngSearch", Err: err.Error()}
	}

	var response SearxngResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &DriverError{Op: "SearxngSearch", Err: "failed to decode response: " + err.Error()}
	}
	if response.Results == nil {
		response.Results = []SearxngResult{}
	}

	return &response, nil
}
