package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"search-orchestrator/domain"
	"search-orchestrator/driver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock driver for testing
type mockSearchDriver struct {
	searchFunc         func(ctx context.Context, indexUID string, req driver.SearchRequest) (*driver.SearchResponse, error)
	facetsFunc         func(ctx context.Context, indexUID string, facets []string) (map[string]map[string]int64, error)
	getDocumentFunc    func(ctx context.Context, indexUID string, id int64) (json.RawMessage, error)
	addDocumentsFunc   func(ctx context.Context, indexUID string, docs []json.RawMessage, primaryKey string) (int64, error)
	deleteDocumentFunc func(ctx context.Context, indexUID string, id int64) (int64, error)
	applySettingsFunc  func(ctx context.Context, indexUID string, settings driver.IndexSettings) error
	getSynonymsFunc    func(ctx context.Context, indexUID string) (map[string][]string, error)
	updateSynonymsFunc func(ctx context.Context, indexUID string, synonyms map[string][]string) (int64, error)
	waitForTaskFunc    func(ctx context.Context, taskUID int64) error
	healthFunc         func(ctx context.Context) error
}

func (m *mockSearchDriver) Search(ctx context.Context, indexUID string, req driver.SearchRequest) (*driver.SearchResponse, error) {
	return m.searchFunc(ctx, indexUID, req)
}

func (m *mockSearchDriver) FacetDistribution(ctx context.Context, indexUID string, facets []string) (map[string]map[string]int64, error) {
	return m.facetsFunc(ctx, indexUID, facets)
}

func (m *mockSearchDriver) GetDocument(ctx context.Context, indexUID string, id int64) (json.RawMessage, error) {
	return m.getDocumentFunc(ctx, indexUID, id)
}

func (m *mockSearchDriver) AddDocuments(ctx context.Context, indexUID string, docs []json.RawMessage, primaryKey string) (int64, error) {
	return m.addDocumentsFunc(ctx, indexUID, docs, primaryKey)
}

func (m *mockSearchDriver) DeleteDocument(ctx context.Context, indexUID string, id int64) (int64, error) {
	return m.deleteDocumentFunc(ctx, indexUID, id)
}

func (m *mockSearchDriver) ApplySettings(ctx context.Context, indexUID string, settings driver.IndexSettings) error {
	return m.applySettingsFunc(ctx, indexUID, settings)
}

func (m *mockSearchDriver) GetSynonyms(ctx context.Context, indexUID string) (map[string][]string, error) {
	return m.getSynonymsFunc(ctx, indexUID)
}

func (m *mockSearchDriver) UpdateSynonyms(ctx context.Context, indexUID string, synonyms map[string][]string) (int64, error) {
	return m.updateSynonymsFunc(ctx, indexUID, synonyms)
}

func (m *mockSearchDriver) WaitForTask(ctx context.Context, taskUID int64) error {
	return m.waitForTaskFunc(ctx, taskUID)
}

func (m *mockSearchDriver) Health(ctx context.Context) error {
	return m.healthFunc(ctx)
}

func TestSearchEngineGateway_Search(t *testing.T) {
	tests := []struct {
		name      string
		domain    domain.Domain
		response  *driver.SearchResponse
		driverErr error
		wantErr   bool
		validate  func(t *testing.T, result *domain.EngineResult)
	}{
		{
			name:   "movies hits decode into movies",
			domain: domain.Movies,
			response: &driver.SearchResponse{
				Hits: []json.RawMessage{
					json.RawMessage(`{"id":1,"title":"Blade Runner","director":"Ridley Scott","year":1982,"genres":["Sci-Fi"],"rating":8.1,"language":"en","_rankingScore":0.8}`),
				},
				EstimatedTotalHits: 1,
				ProcessingTimeMs:   2,
			},
			validate: func(t *testing.T, result *domain.EngineResult) {
				require.Len(t, result.Documents, 1)
				movie, ok := result.Documents[0].(*domain.Movie)
				require.True(t, ok)
				assert.Equal(t, "Ridley Scott", movie.Director)
				assert.Equal(t, int64(1), result.EstimatedTotalHits)
				assert.Equal(t, int64(2), result.ProcessingTimeMs)
			},
		},
		{
			name:   "web hits decode into web results",
			domain: domain.Web,
			response: &driver.SearchResponse{
				Hits: []json.RawMessage{json.RawMessage(`{"id":5,"title":"Go","url":"https://go.dev","genres":["web"],"language":"web"}`)},
			},
			validate: func(t *testing.T, result *domain.EngineResult) {
				require.Len(t, result.Documents, 1)
				assert.Equal(t, "https://go.dev", result.Documents[0].Hit().Creator)
			},
		},
		{
			name:      "driver error",
			domain:    domain.Books,
			driverErr: &driver.DriverError{Op: "Search", Err: "invalid filter"},
			wantErr:   true,
		},
		{
			name:     "malformed hit",
			domain:   domain.Books,
			response: &driver.SearchResponse{Hits: []json.RawMessage{json.RawMessage(`{"id":"not-a-number"}`)}},
			wantErr:  true,
		},
		{
			name:    "unknown domain",
			domain:  domain.Domain("music"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIndex string
			mock := &mockSearchDriver{
				searchFunc: func(ctx context.Context, indexUID string, req driver.SearchRequest) (*driver.SearchResponse, error) {
					gotIndex = indexUID
					return tt.response, tt.driverErr
				},
			}
			g := NewSearchEngineGateway(mock)

			result, err := g.Search(context.Background(), tt.domain, domain.EngineQuery{Query: "x", Limit: 12})
			if tt.wantErr {
				require.Error(t, err)
				var engineErr *domain.SearchEngineError
				assert.ErrorAs(t, err, &engineErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.domain.Schema().IndexUID, gotIndex)
			tt.validate(t, result)
		})
	}
}

func TestSearchEngineGateway_SearchPassesQuery(t *testing.T) {
	var got driver.SearchRequest
	mock := &mockSearchDriver{
		searchFunc: func(ctx context.Context, indexUID string, req driver.SearchRequest) (*driver.SearchResponse, error) {
			got = req
			return &driver.SearchResponse{}, nil
		},
	}
	g := NewSearchEngineGateway(mock)

	_, err := g.Search(context.Background(), domain.Movies, domain.EngineQuery{
		Query:            "dune",
		Filter:           "year >= 1990",
		Sort:             []string{"rating:desc"},
		Offset:           24,
		Limit:            12,
		ShowRankingScore: true,
	})
	require.NoError(t, err)

	assert.Equal(t, driver.SearchRequest{
		Query:            "dune",
		Filter:           "year >= 1990",
		Sort:             []string{"rating:desc"},
		Offset:           24,
		Limit:            12,
		ShowRankingScore: true,
	}, got)
}

func TestSearchEngineGateway_FacetDistribution(t *testing.T) {
	mock := &mockSearchDriver{
		facetsFunc: func(ctx context.Context, indexUID string, facets []string) (map[string]map[string]int64, error) {
			assert.Equal(t, "movies", indexUID)
			assert.Equal(t, []string{"genres", "year", "language"}, facets)
			return map[string]map[string]int64{"genres": {"Drama": 3}}, nil
		},
	}
	g := NewSearchEngineGateway(mock)

	dist, err := g.FacetDistribution(context.Background(), domain.Movies, domain.FacetDimensions)
	require.NoError(t, err)
	assert.Equal(t, int64(3), dist["genres"]["Drama"])

	mock.facetsFunc = func(ctx context.Context, indexUID string, facets []string) (map[string]map[string]int64, error) {
		return nil, nil
	}
	dist, err = g.FacetDistribution(context.Background(), domain.Movies, domain.FacetDimensions)
	require.NoError(t, err)
	assert.Empty(t, dist)

	mock.facetsFunc = func(ctx context.Context, indexUID string, facets []string) (map[string]map[string]int64, error) {
		return nil, &driver.DriverError{Op: "FacetDistribution", Err: "boom"}
	}
	_, err = g.FacetDistribution(context.Background(), domain.Movies, domain.FacetDimensions)
	var engineErr *domain.SearchEngineError
	require.ErrorAs(t, err, &engineErr)
}

func TestSearchEngineGateway_GetDocument(t *testing.T) {
	tests := []struct {
		name         string
		raw          json.RawMessage
		driverErr    error
		wantErr      bool
		wantNotFound bool
	}{
		{
			name: "found",
			raw:  json.RawMessage(`{"id":3,"title":"Dune","author":"Frank Herbert","year":1965,"genres":["Sci-Fi"],"rating":4.5,"language":"en","pages":412}`),
		},
		{
			name:         "not found",
			driverErr:    &driver.DriverError{Op: "GetDocument", Err: "document_not_found", StatusCode: 404},
			wantErr:      true,
			wantNotFound: true,
		},
		{
			name:      "engine unreachable",
			driverErr: errors.New("connection refused"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSearchDriver{
				getDocumentFunc: func(ctx context.Context, indexUID string, id int64) (json.RawMessage, error) {
					assert.Equal(t, "books", indexUID)
					return tt.raw, tt.driverErr
				},
			}
			g := NewSearchEngineGateway(mock)

			doc, err := g.GetDocument(context.Background(), domain.Books, 3)
			if tt.wantErr {
				var engineErr *domain.SearchEngineError
				require.ErrorAs(t, err, &engineErr)
				assert.Equal(t, tt.wantNotFound, engineErr.NotFound)
				return
			}
			require.NoError(t, err)
			book, ok := doc.(*domain.Book)
			require.True(t, ok)
			require.NotNil(t, book.Pages)
			assert.Equal(t, 412, *book.Pages)
		})
	}
}

func TestSearchEngineGateway_UpsertDocuments(t *testing.T) {
	var gotDocs []json.RawMessage
	var gotKey string
	mock := &mockSearchDriver{
		addDocumentsFunc: func(ctx context.Context, indexUID string, docs []json.RawMessage, primaryKey string) (int64, error) {
			gotDocs = docs
			gotKey = primaryKey
			return 11, nil
		},
	}
	g := NewSearchEngineGateway(mock)

	web := domain.NewWebResult(domain.MetasearchResult{Title: "Go", URL: "https://go.dev"})
	task, err := g.UpsertDocuments(context.Background(), domain.Web, []domain.Document{web})
	require.NoError(t, err)
	assert.Equal(t, int64(11), task.UID)
	assert.Equal(t, "id", gotKey)
	require.Len(t, gotDocs, 1)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(gotDocs[0], &decoded))
	assert.Equal(t, "https://go.dev", decoded["url"])
	assert.Equal(t, []interface{}{"web"}, decoded["genres"])

	_, err = g.UpsertDocuments(context.Background(), domain.Web, nil)
	assert.Error(t, err, "empty batches are rejected")

	_, err = g.UpsertDocuments(context.Background(), domain.Movies, []domain.Document{web})
	assert.Error(t, err, "documents must match the target domain")
}

func TestSearchEngineGateway_ConfigureAttributes(t *testing.T) {
	var got driver.IndexSettings
	mock := &mockSearchDriver{
		applySettingsFunc: func(ctx context.Context, indexUID string, settings driver.IndexSettings) error {
			assert.Equal(t, "web", indexUID)
			got = settings
			return nil
		},
	}
	g := NewSearchEngineGateway(mock)

	require.NoError(t, g.ConfigureAttributes(context.Background(), domain.Web))
	assert.Equal(t, domain.Web.Schema().Searchable, got.Searchable)
	assert.Equal(t, domain.Web.Schema().Filterable, got.Filterable)
	assert.Equal(t, domain.Web.Schema().Sortable, got.Sortable)

	mock.applySettingsFunc = func(ctx context.Context, indexUID string, settings driver.IndexSettings) error {
		return &driver.DriverError{Op: "ApplySettings", Err: "forbidden"}
	}
	err := g.ConfigureAttributes(context.Background(), domain.Web)
	var engineErr *domain.SearchEngineError
	assert.ErrorAs(t, err, &engineErr)
}

func TestSearchEngineGateway_WaitForTask(t *testing.T) {
	mock := &mockSearchDriver{
		waitForTaskFunc: func(ctx context.Context, taskUID int64) error {
			if taskUID == 2 {
				return &driver.DriverError{Op: "WaitForTask", Err: "task 2: failed"}
			}
			return nil
		},
	}
	g := NewSearchEngineGateway(mock)

	assert.NoError(t, g.WaitForTask(context.Background(), domain.IndexTask{UID: 1}))
	assert.Error(t, g.WaitForTask(context.Background(), domain.IndexTask{UID: 2}))
}
