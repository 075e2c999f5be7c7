package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"search-orchestrator/domain"
	"search-orchestrator/driver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMetasearchDriver struct {
	calls      int
	searchFunc func(ctx context.Context, query string) (*driver.SearxngResponse, error)
}

func (m *mockMetasearchDriver) Search(ctx context.Context, query string) (*driver.SearxngResponse, error) {
	m.calls++
	return m.searchFunc(ctx, query)
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("cache down")
}

func strPtr(s string) *string { return &s }

func TestMetasearchGateway_Search(t *testing.T) {
	mock := &mockMetasearchDriver{
		searchFunc: func(ctx context.Context, query string) (*driver.SearxngResponse, error) {
			return &driver.SearxngResponse{Results: []driver.SearxngResult{
				{Title: "<b>Go</b> &amp; generics", URL: "https://go.dev/doc", Content: strPtr("A <script>alert(1)</script>tutorial"), Engine: strPtr("duckduckgo")},
				{Title: "No URL", URL: "  "},
				{Title: "Duplicate", URL: "https://go.dev/doc"},
				{Title: "Thumb only", URL: "https://example.com", Thumbnail: strPtr("https://example.com/t.png"), PublishedDate: strPtr("")},
			}}, nil
		},
	}
	g := NewMetasearchGateway(mock, nil)

	results, err := g.Search(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Go & generics", results[0].Title)
	require.NotNil(t, results[0].Content)
	assert.Equal(t, "A tutorial", *results[0].Content)
	assert.Equal(t, "duckduckgo", *results[0].Engine)

	assert.Equal(t, "https://example.com", results[1].URL)
	require.NotNil(t, results[1].ImageURL)
	assert.Equal(t, "https://example.com/t.png", *results[1].ImageURL)
	assert.Nil(t, results[1].PublishedDate)
	assert.Nil(t, results[1].Content)
}

func TestMetasearchGateway_DriverError(t *testing.T) {
	mock := &mockMetasearchDriver{
		searchFunc: func(ctx context.Context, query string) (*driver.SearxngResponse, error) {
			return nil, &driver.DriverError{Op: "SearxngSearch", Err: "searxng HTTP 500", StatusCode: 500}
		},
	}
	g := NewMetasearchGateway(mock, nil)

	_, err := g.Search(context.Background(), "golang")
	var metaErr *domain.MetasearchError
	require.ErrorAs(t, err, &metaErr)
	assert.Equal(t, "Search", metaErr.Op)
}

func TestMetasearchGateway_Cache(t *testing.T) {
	mock := &mockMetasearchDriver{
		searchFunc: func(ctx context.Context, query string) (*driver.SearxngResponse, error) {
			return &driver.SearxngResponse{Results: []driver.SearxngResult{
				{Title: "Go", URL: "https://go.dev", Content: strPtr("home")},
			}}, nil
		},
	}
	g := NewMetasearchGateway(mock, driver.NewMemoryCache(8, time.Minute))

	first, err := g.Search(context.Background(), "Golang")
	require.NoError(t, err)
	second, err := g.Search(context.Background(), "  golang ")
	require.NoError(t, err)

	assert.Equal(t, 1, mock.calls, "normalized query is served from cache")
	assert.Equal(t, first, second)
}

func TestMetasearchGateway_CacheFailureFallsThrough(t *testing.T) {
	mock := &mockMetasearchDriver{
		searchFunc: func(ctx context.Context, query string) (*driver.SearxngResponse, error) {
			return &driver.SearxngResponse{Results: []driver.SearxngResult{{Title: "Go", URL: "https://go.dev"}}}, nil
		},
	}
	g := NewMetasearchGateway(mock, failingCache{})

	results, err := g.Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestCacheKey(t *testing.T) {
	long := strings.Repeat("very long query ", 200)

	tests := []struct {
		name      string
		a, b      string
		wantEqual bool
	}{
		{name: "case and spacing are normalized", a: "Go  Generics", b: " go generics ", wantEqual: true},
		{name: "different queries differ", a: "go generics", b: "go modules", wantEqual: false},
		{name: "long queries hash to distinct short keys", a: long, b: long + "x", wantEqual: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := cacheKey(tt.a), cacheKey(tt.b)
			assert.LessOrEqual(t, len(ka), 16)
			assert.LessOrEqual(t, len(kb), 16)
			if tt.wantEqual {
				assert.Equal(t, ka, kb)
			} else {
				assert.NotEqual(t, ka, kb)
			}
		})
	}
}
