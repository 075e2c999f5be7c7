package gateway

import (
	"context"
	"encoding/json"
	"html"
	"strconv"
	"strings"
	"time"

	"search-orchestrator/domain"
	"search-orchestrator/driver"
	"search-orchestrator/logger"
	"search-orchestrator/metrics"

	"github.com/cespare/xxhash/v2"
	"github.com/microcosm-cc/bluemonday"
)

type MetasearchDriver interface {
	Search(ctx context.Context, query string) (*driver.SearxngResponse, error)
}

// ResultCache stores serialized metasearch responses by normalized query.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type cachedResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       *string `json:"content,omitempty"`
	Engine        *string `json:"engine,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
}

type MetasearchGateway struct {
	driver MetasearchDriver
	cache  ResultCache
	policy *bluemonday.Policy
}

// NewMetasearchGateway wires the SearXNG driver. cache may be nil.
func NewMetasearchGateway(driver MetasearchDriver, cache ResultCache) *MetasearchGateway {
	return &MetasearchGateway{
		driver: driver,
		cache:  cache,
		policy: bluemonday.StrictPolicy(),
	}
}

// Search returns sanitized results in engine order. Entries without a URL
// are dropped and repeated URLs keep their first occurrence.
func (g *MetasearchGateway) Search(ctx context.Context, query string) ([]domain.MetasearchResult, error) {
	key := cacheKey(query)

	if results, ok := g.fromCache(ctx, key); ok {
		return results, nil
	}

	start := time.Now()
	resp, err := g.driver.Search(ctx, query)
	metrics.MetasearchRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MetasearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, &domain.MetasearchError{
			Op:  "Search",
			Err: err.Error(),
		}
	}
	metrics.MetasearchRequestsTotal.WithLabelValues("ok").Inc()

	results := g.convert(resp.Results)
	g.toCache(ctx, key, results)

	return results, nil
}

func (g *MetasearchGateway) convert(raw []driver.SearxngResult) []domain.MetasearchResult {
	results := make([]domain.MetasearchResult, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		url := strings.TrimSpace(r.URL)
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}

		image := r.ImgSrc
		if image == nil || strings.TrimSpace(*image) == "" {
			image = r.Thumbnail
		}

		results = append(results, domain.MetasearchResult{
			Title:         g.sanitize(r.Title),
			URL:           url,
			Content:       g.sanitizePtr(r.Content),
			Engine:        nonEmpty(r.Engine),
			PublishedDate: nonEmpty(r.PublishedDate),
			ImageURL:      nonEmpty(image),
		})
	}

	return results
}

// sanitize strips markup but keeps the text, so entities are unescaped after
// the policy has run.
func (g *MetasearchGateway) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(g.policy.Sanitize(s)))
}

func (g *MetasearchGateway) sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := g.sanitize(*s)
	return &clean
}

func (g *MetasearchGateway) fromCache(ctx context.Context, key string) ([]domain.MetasearchResult, bool) {
	if g.cache == nil {
		return nil, false
	}

	data, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		logger.GlobalContext.WithContext(ctx).Warn("metasearch cache read failed", "error", err)
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	var cached []cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	metrics.CacheHitsTotal.Inc()
	results := make([]domain.MetasearchResult, len(cached))
	for i, c := range cached {
		results[i] = domain.MetasearchResult{
			Title:         c.Title,
			URL:           c.URL,
			Content:       c.Content,
			Engine:        c.Engine,
			PublishedDate: c.PublishedDate,
			ImageURL:      c.ImageURL,
		}
	}
	return results, true
}

func (g *MetasearchGateway) toCache(ctx context.Context, key string, results []domain.MetasearchResult) {
	if g.cache == nil {
		return
	}

	cached := make([]cachedResult, len(results))
	for i, r := range results {
		cached[i] = cachedResult{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			Engine:        r.Engine,
			PublishedDate: r.PublishedDate,
			ImageURL:      r.ImageURL,
		}
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, key, data); err != nil {
		logger.GlobalContext.WithContext(ctx).Warn("metasearch cache write failed", "error", err)
	}
}

// cacheKey hashes the normalized query so that keys stay short whatever the
// query length. Queries differing only in case or spacing share a key.
func cacheKey(query string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	return strconv.FormatUint(xxhash.Sum64String(normalized), 16)
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
