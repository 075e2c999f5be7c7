package usecase

import (
	"context"
	"errors"
	"strings"

	"search-orchestrator/domain"
	"search-orchestrator/logger"
	"search-orchestrator/port"
	"search-orchestrator/utils/otel"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const defaultReadBackConcurrency = 8

type ImportFromWebUsecase struct {
	metasearch   port.Metasearch
	searchEngine port.SearchEngine
	concurrency  int
}

func NewImportFromWebUsecase(metasearch port.Metasearch, searchEngine port.SearchEngine, readBackConcurrency int) *ImportFromWebUsecase {
	if readBackConcurrency <= 0 {
		readBackConcurrency = defaultReadBackConcurrency
	}
	return &ImportFromWebUsecase{
		metasearch:   metasearch,
		searchEngine: searchEngine,
		concurrency:  readBackConcurrency,
	}
}

// Execute fetches query from the metasearch engine, indexes the results into
// the web domain and returns what the index holds for them afterwards, as a
// single page. Any failure aborts the whole import.
func (u *ImportFromWebUsecase) Execute(ctx context.Context, query string) (*domain.SearchResult, error) {
	ctx = logger.WithImportQuery(ctx, query)
	ctx, span := otelapi.Tracer(tracerName).Start(ctx, "ImportFromWeb")
	defer span.End()

	result, err := u.execute(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import failed")
		otel.RecordError(ctx, "import_from_web", string(domain.KindImport))
		logger.GlobalContext.LogError(ctx, "import_from_web", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("search.import.count", result.TotalHits))
	otel.RecordImported(ctx, len(result.Hits))
	logger.GlobalContext.WithContext(ctx).Info("web import completed", "imported", len(result.Hits))
	return result, nil
}

func (u *ImportFromWebUsecase) execute(ctx context.Context, query string) (*domain.SearchResult, error) {
	results, err := u.metasearch.Search(ctx, query)
	if err != nil {
		return nil, &domain.ImportError{Op: "Metasearch", Err: err}
	}

	docs := webDocuments(results)
	if len(docs) == 0 {
		return &domain.SearchResult{
			Hits:       []domain.Hit{},
			TotalHits:  0,
			Page:       1,
			TotalPages: 0,
		}, nil
	}

	if err := u.searchEngine.ConfigureAttributes(ctx, domain.Web); err != nil {
		return nil, &domain.ImportError{
			Op:  "ConfigureAttributes",
			Err: &domain.ConfigurationError{Domain: domain.Web, Err: err},
		}
	}

	task, err := u.searchEngine.UpsertDocuments(ctx, domain.Web, docs)
	if err != nil {
		return nil, &domain.ImportError{Op: "UpsertDocuments", Err: err}
	}
	if err := u.searchEngine.WaitForTask(ctx, task); err != nil {
		return nil, &domain.ImportError{Op: "WaitForTask", Err: err}
	}

	stored, err := u.readBack(ctx, docs)
	if err != nil {
		return nil, &domain.ImportError{Op: "ReadBack", Err: err}
	}

	totalPages := 0
	if len(stored) > 0 {
		totalPages = 1
	}

	return &domain.SearchResult{
		Hits:             domain.Normalize(stored),
		TotalHits:        int64(len(stored)),
		Page:             1,
		TotalPages:       totalPages,
		ProcessingTimeMs: 0,
	}, nil
}

// readBack fetches every written document from the index, keeping the
// metasearch order. Documents the engine rejected are skipped.
func (u *ImportFromWebUsecase) readBack(ctx context.Context, docs []domain.Document) ([]domain.Document, error) {
	slots := make([]domain.Document, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			stored, err := u.searchEngine.GetDocument(gctx, domain.Web, doc.DocumentID())
			if err != nil {
				if isEngineNotFound(err) {
					return nil
				}
				return err
			}
			slots[i] = stored
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stored := make([]domain.Document, 0, len(slots))
	for _, doc := range slots {
		if doc != nil {
			stored = append(stored, doc)
		}
	}
	return stored, nil
}

// webDocuments projects metasearch results into web documents. Results with
// an empty URL are dropped and the first result wins per derived id.
func webDocuments(results []domain.MetasearchResult) []domain.Document {
	docs := make([]domain.Document, 0, len(results))
	seen := make(map[int64]struct{}, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		doc := domain.NewWebResult(r)
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		docs = append(docs, doc)
	}
	return docs
}

func isEngineNotFound(err error) bool {
	var engineErr *domain.SearchEngineError
	return errors.As(err, &engineErr) && engineErr.NotFound
}
