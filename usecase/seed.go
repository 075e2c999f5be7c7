package usecase

import (
	"context"
	"fmt"

	"search-orchestrator/domain"
	"search-orchestrator/logger"
	"search-orchestrator/port"

	"github.com/ikawaha/kagome/v2/tokenizer"
)

type SeedUsecase struct {
	searchEngine port.SearchEngine
	tokenizer    *tokenizer.Tokenizer
}

func NewSeedUsecase(searchEngine port.SearchEngine, tok *tokenizer.Tokenizer) *SeedUsecase {
	return &SeedUsecase{
		searchEngine: searchEngine,
		tokenizer:    tok,
	}
}

// Seed bulk-loads docs into d, waits for the write, then applies the
// domain's attribute settings. It returns the number of documents written.
func (u *SeedUsecase) Seed(ctx context.Context, d domain.Domain, docs []domain.Document) (int, error) {
	if !d.Valid() {
		return 0, &domain.QueryError{Op: "Seed", Err: domain.ErrUnknownDomain}
	}
	if len(docs) == 0 {
		return 0, nil
	}

	prepared := make([]domain.Document, 0, len(docs))
	for i, doc := range docs {
		doc, err := prepareDocument(doc)
		if err != nil {
			return 0, fmt.Errorf("seed %s document %d: %w", d, i, err)
		}
		if doc.Domain() != d {
			return 0, fmt.Errorf("seed %s document %d: %w: domain %s", d, i, domain.ErrInvalidDocument, doc.Domain())
		}
		prepared = append(prepared, doc)
	}

	task, err := u.searchEngine.UpsertDocuments(ctx, d, prepared)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", d, err)
	}
	if err := u.searchEngine.WaitForTask(ctx, task); err != nil {
		return 0, fmt.Errorf("seed %s: %w", d, err)
	}

	if err := u.searchEngine.ConfigureAttributes(ctx, d); err != nil {
		return 0, &domain.ConfigurationError{Domain: d, Err: err}
	}

	ctx = logger.WithDomain(ctx, d.String())
	if err := registerGenreSynonyms(ctx, u.searchEngine, u.tokenizer, d, prepared); err != nil {
		logger.GlobalContext.WithContext(ctx).Warn("failed to register genre synonyms", "error", err)
	}

	logger.GlobalContext.WithContext(ctx).Info("seeded documents", "count", len(prepared))
	return len(prepared), nil
}
