package port

import (
	"context"

	"search-orchestrator/domain"
)

// SearchEngine is the index engine seen from the use cases. Every call is
// scoped to one domain; the domain's Schema names the index and attributes.
type SearchEngine interface {
	// ConfigureAttributes applies the domain's searchable, filterable and
	// sortable attributes. Repeating it is harmless.
	ConfigureAttributes(ctx context.Context, d domain.Domain) error
	Search(ctx context.Context, d domain.Domain, query domain.EngineQuery) (*domain.EngineResult, error)
	// FacetDistribution returns value counts per requested dimension over the
	// whole index. Dimensions the engine omits are absent from the map.
	FacetDistribution(ctx context.Context, d domain.Domain, dimensions []string) (map[string]map[string]int64, error)
	GetDocument(ctx context.Context, d domain.Domain, id int64) (domain.Document, error)
	UpsertDocuments(ctx context.Context, d domain.Domain, docs []domain.Document) (domain.IndexTask, error)
	DeleteDocument(ctx context.Context, d domain.Domain, id int64) (domain.IndexTask, error)
	Synonyms(ctx context.Context, d domain.Domain) (map[string][]string, error)
	// RegisterSynonyms replaces the domain's synonym set.
	RegisterSynonyms(ctx context.Context, d domain.Domain, synonyms map[string][]string) (domain.IndexTask, error)
	// WaitForTask blocks until the task is no longer pending and returns an
	// error when it failed.
	WaitForTask(ctx context.Context, task domain.IndexTask) error
	Healthy(ctx context.Context) error
}
