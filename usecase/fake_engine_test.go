package usecase

import (
	"context"
	"strconv"
	"sync"

	"search-orchestrator/domain"
)

// fakeEngine is an in-memory index engine. Documents keep insertion order and
// upserts replace in place, like an index keyed by primary key.
type fakeEngine struct {
	mu         sync.Mutex
	docs       map[domain.Domain][]domain.Document
	synonyms   map[domain.Domain]map[string][]string
	synWrites  map[domain.Domain]int
	configured map[domain.Domain]int
	lastQuery  domain.EngineQuery
	taskUID    int64
	upserts    int

	// rejected ids are accepted by UpsertDocuments but never stored.
	rejected map[int64]bool

	searchErr    error
	facetErr     error
	configureErr error
	upsertErr    error
	waitErr      error
	getErr       error
	deleteErr    error
	facetDist    map[string]map[string]int64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		docs:       map[domain.Domain][]domain.Document{},
		synonyms:   map[domain.Domain]map[string][]string{},
		synWrites:  map[domain.Domain]int{},
		configured: map[domain.Domain]int{},
		rejected:   map[int64]bool{},
	}
}

func (f *fakeEngine) nextTask() domain.IndexTask {
	f.taskUID++
	return domain.IndexTask{UID: f.taskUID}
}

func (f *fakeEngine) ConfigureAttributes(ctx context.Context, d domain.Domain) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configured[d]++
	return nil
}

func (f *fakeEngine) Search(ctx context.Context, d domain.Domain, query domain.EngineQuery) (*domain.EngineResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	all := f.docs[d]
	start := int(query.Offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(query.Limit)
	if end > len(all) {
		end = len(all)
	}
	page := make([]domain.Document, end-start)
	copy(page, all[start:end])

	return &domain.EngineResult{
		Documents:          page,
		EstimatedTotalHits: int64(len(all)),
		ProcessingTimeMs:   1,
	}, nil
}

func (f *fakeEngine) FacetDistribution(ctx context.Context, d domain.Domain, dimensions []string) (map[string]map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.facetErr != nil {
		return nil, f.facetErr
	}
	if f.facetDist != nil {
		return f.facetDist, nil
	}

	dist := map[string]map[string]int64{}
	for _, doc := range f.docs[d] {
		hit := doc.Hit()
		for _, dim := range dimensions {
			if dist[dim] == nil {
				dist[dim] = map[string]int64{}
			}
			switch dim {
			case "genres":
				for _, g := range hit.Genres {
					dist[dim][g]++
				}
			case "year":
				dist[dim][strconv.Itoa(hit.Year)]++
			case "language":
				dist[dim][hit.Language]++
			}
		}
	}
	return dist, nil
}

func (f *fakeEngine) GetDocument(ctx context.Context, d domain.Domain, id int64) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, doc := range f.docs[d] {
		if doc.DocumentID() == id {
			return doc, nil
		}
	}
	return nil, &domain.SearchEngineError{Op: "GetDocument", Err: "document not found", NotFound: true}
}

func (f *fakeEngine) UpsertDocuments(ctx context.Context, d domain.Domain, docs []domain.Document) (domain.IndexTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return domain.IndexTask{}, f.upsertErr
	}
	f.upserts++

	for _, doc := range docs {
		if f.rejected[doc.DocumentID()] {
			continue
		}
		replaced := false
		for i, existing := range f.docs[d] {
			if existing.DocumentID() == doc.DocumentID() {
				f.docs[d][i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			f.docs[d] = append(f.docs[d], doc)
		}
	}
	return f.nextTask(), nil
}

func (f *fakeEngine) DeleteDocument(ctx context.Context, d domain.Domain, id int64) (domain.IndexTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return domain.IndexTask{}, f.deleteErr
	}
	kept := f.docs[d][:0]
	for _, doc := range f.docs[d] {
		if doc.DocumentID() != id {
			kept = append(kept, doc)
		}
	}
	f.docs[d] = kept
	return f.nextTask(), nil
}

func (f *fakeEngine) Synonyms(ctx context.Context, d domain.Domain) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string][]string{}
	for k, v := range f.synonyms[d] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeEngine) RegisterSynonyms(ctx context.Context, d domain.Domain, synonyms map[string][]string) (domain.IndexTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synonyms[d] = synonyms
	f.synWrites[d]++
	return f.nextTask(), nil
}

func (f *fakeEngine) registerCount(d domain.Domain) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.synWrites[d]
}

func (f *fakeEngine) WaitForTask(ctx context.Context, task domain.IndexTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waitErr
}

func (f *fakeEngine) Healthy(ctx context.Context) error {
	return nil
}

func (f *fakeEngine) count(d domain.Domain) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs[d])
}

// stubMetasearch returns canned results.
type stubMetasearch struct {
	calls      int
	searchFunc func(ctx context.Context, query string) ([]domain.MetasearchResult, error)
}

func (s *stubMetasearch) Search(ctx context.Context, query string) ([]domain.MetasearchResult, error) {
	s.calls++
	return s.searchFunc(ctx, query)
}

func seedMovies(f *fakeEngine, n int) {
	for i := 1; i <= n; i++ {
		f.docs[domain.Movies] = append(f.docs[domain.Movies], &domain.Movie{
			ID:       int64(i),
			Title:    "Movie " + strconv.Itoa(i),
			Director: "Director " + strconv.Itoa(i),
			Year:     1980 + i,
			Genres:   []string{"Drama"},
			Rating:   7.0,
			Language: "en",
		})
	}
}
