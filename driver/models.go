package driver

import (
	"encoding/json"
	"net/http"
)

// SearchRequest is a single query against one index. Empty Filter and Sort
// are not sent.
type SearchRequest struct {
	Query            string
	Filter           string
	Sort             []string
	Facets           []string
	Offset           int64
	Limit            int64
	ShowRankingScore bool
}

// SearchResponse is the subset of the engine's search response we consume.
// Hits are kept raw; decoding depends on the index's domain.
type SearchResponse struct {
	Hits               []json.RawMessage           `json:"hits"`
	EstimatedTotalHits int64                       `json:"estimatedTotalHits"`
	ProcessingTimeMs   int64                       `json:"processingTimeMs"`
	FacetDistribution  map[string]map[string]int64 `json:"facetDistribution"`
}

type IndexSettings struct {
	PrimaryKey string
	Searchable []string
	Filterable []string
	Sortable   []string
}

type SearxngResponse struct {
	Query   string          `json:"query"`
	Results []SearxngResult `json:"results"`
}

// SearxngResult is one entry of a SearXNG JSON response. Everything but the
// url may be missing.
type SearxngResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       *string `json:"content"`
	Engine        *string `json:"engine"`
	PublishedDate *string `json:"publishedDate"`
	ImgSrc        *string `json:"img_src"`
	Thumbnail     *string `json:"thumbnail"`
}

// DriverError represents an error from the driver layer
type DriverError struct {
	Op  string
	Err string
	// StatusCode is the upstream HTTP status when one was received.
	StatusCode int
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}

// IsNotFound reports whether the upstream answered 404.
func (e *DriverError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
