package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Endpoint addresses the engine's HTTP API for requests the client library
// cannot express.
type Endpoint struct {
	Host   string
	APIKey string
	Client *http.Client
}

// facetRequest keeps limit on the wire even when zero. The client library's
// SearchRequest drops a zero limit and the engine then returns 20 hits.
type facetRequest struct {
	Query  string   `json:"q"`
	Limit  int64    `json:"limit"`
	Facets []string `json:"facets"`
}

type engineError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FacetDistribution asks for value counts of the given attributes over the
// whole index without fetching any hit.
func (d *MeilisearchDriver) FacetDistribution(ctx context.Context, indexUID string, facets []string) (map[string]map[string]int64, error) {
	body, err := json.Marshal(facetRequest{Query: "", Limit: 0, Facets: facets})
	if err != nil {
		return nil, &DriverError{Op: "FacetDistribution", Err: "failed to encode request: " + err.Error()}
	}

	endpoint := strings.TrimRight(d.endpoint.Host, "/") + "/indexes/" + url.PathEscape(indexUID) + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &DriverError{Op: "FacetDistribution", Err: "failed to create request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if d.endpoint.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.endpoint.APIKey)
	}

	client := d.endpoint.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &DriverError{Op: "FacetDistribution", Err: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := resp.Status
		var engErr engineError
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil && json.Unmarshal(raw, &engErr) == nil && engErr.Message != "" {
			msg = fmt.Sprintf("%s (%s)", engErr.Message, engErr.Code)
		}
		return nil, &DriverError{Op: "FacetDistribution", Err: msg, StatusCode: resp.StatusCode}
	}

	var decoded SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &DriverError{Op: "FacetDistribution", Err: "failed to decode response: " + err.Error()}
	}
	if decoded.FacetDistribution == nil {
		return map[string]map[string]int64{}, nil
	}
	return decoded.FacetDistribution, nil
}
