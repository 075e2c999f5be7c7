package bootstrap

import (
	"context"

	"search-orchestrator/config"
	"search-orchestrator/gateway"
	"search-orchestrator/logger"
	"search-orchestrator/tokenize"
	"search-orchestrator/usecase"
)

// Dependencies is the wired object graph shared by the server and the CLI
// commands. Each external client is created once and reused.
type Dependencies struct {
	Config       *config.Config
	SearchEngine *gateway.SearchEngineGateway

	SearchItems   *usecase.SearchItemsUsecase
	GetFacets     *usecase.GetFacetsUsecase
	ImportFromWeb *usecase.ImportFromWebUsecase
	Documents     *usecase.DocumentsUsecase
	Seed          *usecase.SeedUsecase
	EnsureIndexes *usecase.EnsureIndexesUsecase

	closers []func()
}

// NewDependencies connects to the external services and builds every
// usecase. Close releases what it opened.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// ── Tokenizer ──
	tok, err := tokenize.InitTokenizer()
	if err != nil {
		logger.Logger.Error("Failed to initialize tokenizer, genre synonyms disabled", "err", err)
		tok = nil
	}

	// ── Drivers (infrastructure layer) ──
	searchDriver, err := initMeilisearchDriver(ctx, cfg.Meilisearch)
	if err != nil {
		return nil, err
	}
	searxngDriver := initSearxngDriver(cfg.Searxng)
	cache, closeCache := initResultCache(ctx, cfg.Cache)

	// ── Gateways (anti-corruption layer) ──
	searchEngine := gateway.NewSearchEngineGateway(searchDriver)
	metasearch := gateway.NewMetasearchGateway(searxngDriver, cache)

	// ── Use cases (application layer) ──
	return &Dependencies{
		Config:        cfg,
		SearchEngine:  searchEngine,
		SearchItems:   usecase.NewSearchItemsUsecase(searchEngine),
		GetFacets:     usecase.NewGetFacetsUsecase(searchEngine),
		ImportFromWeb: usecase.NewImportFromWebUsecase(metasearch, searchEngine, config.ImportReadBackLimit),
		Documents:     usecase.NewDocumentsUsecase(searchEngine, tok),
		Seed:          usecase.NewSeedUsecase(searchEngine, tok),
		EnsureIndexes: usecase.NewEnsureIndexesUsecase(searchEngine),
		closers:       []func(){closeCache},
	}, nil
}

func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}
