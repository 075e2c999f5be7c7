package search_engine

import (
	"net/http"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient returns a traced client whose requests are bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewMeilisearchClient builds a client that is safe for concurrent reuse.
func NewMeilisearchClient(host string, apiKey string, httpClient *http.Client) meilisearch.ServiceManager {
	return meilisearch.New(host,
		meilisearch.WithAPIKey(apiKey),
		meilisearch.WithCustomClient(httpClient),
	)
}
