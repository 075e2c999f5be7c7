package usecase

import (
	"context"
	"errors"
	"testing"

	"search-orchestrator/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func quantumResults() []domain.MetasearchResult {
	return []domain.MetasearchResult{
		{Title: "Quantum computing", URL: "https://en.wikipedia.org/wiki/Quantum_computing", Content: strPtr("Overview"), Engine: strPtr("wikipedia")},
		{Title: "IBM Quantum", URL: "https://www.ibm.com/quantum", Engine: strPtr("google")},
		{Title: "Qiskit", URL: "https://qiskit.org", ImageURL: strPtr("https://qiskit.org/logo.png")},
	}
}

func TestImportFromWebUsecase_Execute(t *testing.T) {
	engine := newFakeEngine()
	meta := &stubMetasearch{searchFunc: func(ctx context.Context, query string) ([]domain.MetasearchResult, error) {
		assert.Equal(t, "quantum computing", query)
		return quantumResults(), nil
	}}
	uc := NewImportFromWebUsecase(meta, engine, 2)

	result, err := uc.Execute(context.Background(), "quantum computing")
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.TotalHits)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, int64(0), result.ProcessingTimeMs)
	require.Len(t, result.Hits, 3)

	for i, r := range quantumResults() {
		hit := result.Hits[i]
		assert.Equal(t, domain.WebResultID(r.URL), hit.ID, "ids derive from the url")
		assert.Equal(t, r.URL, hit.Creator)
		assert.Equal(t, []string{"web"}, hit.Genres)
		assert.Equal(t, "web", hit.Language)
		assert.Equal(t, 0, hit.Year)
		assert.Equal(t, 0.0, hit.Rating)
		assert.Equal(t, domain.Web, hit.Domain)
	}

	assert.Equal(t, 1, engine.configured[domain.Web])
	assert.Equal(t, 3, engine.count(domain.Web))
}

func TestImportFromWebUsecase_SameURLTwice(t *testing.T) {
	engine := newFakeEngine()
	meta := &stubMetasearch{searchFunc: func(ctx context.Context, query string) ([]domain.MetasearchResult, error) {
		return []domain.MetasearchResult{
			{Title: "Go", URL: "https://go.dev"},
			{Title: "Go again", URL: "https://go.dev"},
		}, nil
	}}
	uc := NewImportFromWebUsecase(meta, engine, 0)

	first, err := uc.Execute(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalHits)
	assert.Equal(t, "Go", first.Hits[0].Title, "first occurrence wins")

	_, err = uc.Execute(context.Background(), "golang")
	require.NoError(t, err)

	assert.Equal(t, 1, engine.count(domain.Web), "re-import overwrites instead of duplicating")
}

func TestImportFromWebUsecase_EmptyResults(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.MetasearchResult
	}{
		{name: "no results", results: []domain.MetasearchResult{}},
		{name: "only results without url", results: []domain.MetasearchResult{{Title: "dangling", URL: " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeEngine()
			meta := &stubMetasearch{searchFunc: func(ctx context.Context, query string) ([]domain.MetasearchResult, error) {
				return tt.results, nil
			}}
			uc := NewImportFromWebUsecase(meta, engine, 0)

			result, err := uc.Execute(context.Background(), "nothing")
			require.NoError(t, err)

			assert.Equal(t, &domain.SearchResult{Hits: []domain.Hit{}, TotalHits: 0, Page: 1, TotalPages: 0}, result)
			assert.Equal(t, 0, engine.configured[domain.Web], "no index is provisioned")
			assert.Equal(t, 0, engine.upserts)
		})
	}
}

func TestImportFromWebUsecase_Failures(t *testing.T) {
	tests := []struct {
		name         string
		metaErr      error
		setup        func(e *fakeEngine)
		wantConfig   bool
		wantUpserted bool
	}{
		{
			name:    "metasearch failure",
			metaErr: &domain.MetasearchError{Op: "Search", Err: "searxng HTTP 502"},
		},
		{
			name:       "attribute configuration failure",
			setup:      func(e *fakeEngine) { e.configureErr = errors.New("forbidden") },
			wantConfig: true,
		},
		{
			name:  "bulk write failure",
			setup: func(e *fakeEngine) { e.upsertErr = errors.New("payload too large") },
		},
		{
			name:         "indexing task failure",
			setup:        func(e *fakeEngine) { e.waitErr = errors.New("task failed") },
			wantUpserted: true,
		},
		{
			name:         "read back failure",
			setup:        func(e *fakeEngine) { e.getErr = errors.New("connection reset") },
			wantUpserted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeEngine()
			if tt.setup != nil {
				tt.setup(engine)
			}
			meta := &stubMetasearch{searchFunc: func(ctx context.Context, query string) ([]domain.MetasearchResult, error) {
				if tt.metaErr != nil {
					return nil, tt.metaErr
				}
				return quantumResults(), nil
			}}
			uc := NewImportFromWebUsecase(meta, engine, 0)

			result, err := uc.Execute(context.Background(), "quantum computing")
			require.Error(t, err)
			assert.Nil(t, result, "no partial result on failure")

			var importErr *domain.ImportError
			require.ErrorAs(t, err, &importErr)
			kind, _ := domain.KindOf(err)
			assert.Equal(t, domain.KindImport, kind)

			var configErr *domain.ConfigurationError
			assert.Equal(t, tt.wantConfig, errors.As(err, &configErr))
			if tt.wantUpserted {
				assert.Equal(t, 1, engine.upserts)
			}
		})
	}
}

func TestImportFromWebUsecase_RejectedDocumentsAreSkipped(t *testing.T) {
	engine := newFakeEngine()
	engine.rejected[domain.WebResultID("https://www.ibm.com/quantum")] = true
	meta := &stubMetasearch{searchFunc: func(ctx context.Context, query string) ([]domain.MetasearchResult, error) {
		return quantumResults(), nil
	}}
	uc := NewImportFromWebUsecase(meta, engine, 0)

	result, err := uc.Execute(context.Background(), "quantum computing")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TotalHits)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, "Quantum computing", result.Hits[0].Title)
	assert.Equal(t, "Qiskit", result.Hits[1].Title)
}
