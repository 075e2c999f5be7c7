package usecase

import (
	"context"
	"time"

	"search-orchestrator/domain"
	"search-orchestrator/port"
	"search-orchestrator/search_engine"
	"search-orchestrator/utils/otel"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "search-orchestrator/usecase"

type SearchItemsUsecase struct {
	searchEngine port.SearchEngine
}

func NewSearchItemsUsecase(searchEngine port.SearchEngine) *SearchItemsUsecase {
	return &SearchItemsUsecase{
		searchEngine: searchEngine,
	}
}

// Execute runs one paged query for state. Empty results are returned as they
// are; importing from the web is a separate operation.
func (u *SearchItemsUsecase) Execute(ctx context.Context, state domain.FilterState) (*domain.SearchResult, error) {
	ctx, span := otelapi.Tracer(tracerName).Start(ctx, "SearchItems")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.domain", state.Domain.String()),
		attribute.Int("search.page", state.CurrentPage()),
	)

	start := time.Now()
	defer func() {
		otel.RecordSearchDuration(ctx, state.Domain.String(), time.Since(start).Seconds())
	}()

	if !state.Domain.Valid() {
		err := &domain.QueryError{Op: "SearchItems", Err: domain.ErrUnknownDomain}
		span.SetStatus(codes.Error, err.Error())
		otel.RecordError(ctx, "search_items", string(domain.KindQuery))
		return nil, err
	}

	query := domain.EngineQuery{
		Query:            state.Query,
		Filter:           search_engine.CompileFilterState(state),
		Sort:             search_engine.CompileSort(state.Sort),
		Offset:           state.Offset(),
		Limit:            domain.PageSize,
		ShowRankingScore: true,
	}

	result, err := u.searchEngine.Search(ctx, state.Domain, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		otel.RecordError(ctx, "search_items", string(domain.KindQuery))
		return nil, &domain.QueryError{Op: "SearchItems", Err: err}
	}

	span.SetAttributes(attribute.Int64("search.total_hits", result.EstimatedTotalHits))

	return &domain.SearchResult{
		Hits:             domain.Normalize(result.Documents),
		TotalHits:        result.EstimatedTotalHits,
		Page:             state.CurrentPage(),
		TotalPages:       domain.TotalPages(result.EstimatedTotalHits),
		ProcessingTimeMs: result.ProcessingTimeMs,
	}, nil
}
