package port

import (
	"context"

	"search-orchestrator/domain"
)

type Metasearch interface {
	// Search returns the engine's results for query in response order.
	Search(ctx context.Context, query string) ([]domain.MetasearchResult, error)
}
