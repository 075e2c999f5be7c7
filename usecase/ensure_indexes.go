package usecase

import (
	"context"

	"search-orchestrator/domain"
	"search-orchestrator/port"

	"golang.org/x/sync/errgroup"
)

type EnsureIndexesUsecase struct {
	searchEngine port.SearchEngine
}

func NewEnsureIndexesUsecase(searchEngine port.SearchEngine) *EnsureIndexesUsecase {
	return &EnsureIndexesUsecase{
		searchEngine: searchEngine,
	}
}

// Execute configures the attribute sets of every domain index concurrently.
// The first failure is returned as a ConfigurationError.
func (u *EnsureIndexesUsecase) Execute(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range domain.AllDomains() {
		g.Go(func() error {
			if err := u.searchEngine.ConfigureAttributes(gctx, d); err != nil {
				return &domain.ConfigurationError{Domain: d, Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}
