package usecase

import (
	"context"
	"sort"
	"time"

	"search-orchestrator/domain"
	"search-orchestrator/port"
	"search-orchestrator/utils/otel"
)

type GetFacetsUsecase struct {
	searchEngine port.SearchEngine
}

func NewGetFacetsUsecase(searchEngine port.SearchEngine) *GetFacetsUsecase {
	return &GetFacetsUsecase{
		searchEngine: searchEngine,
	}
}

// Execute returns the facet distribution of the whole index for d. A
// dimension the engine does not report yields an empty list.
func (u *GetFacetsUsecase) Execute(ctx context.Context, d domain.Domain) (*domain.FacetInfo, error) {
	start := time.Now()
	defer func() {
		otel.RecordFacetDuration(ctx, d.String(), time.Since(start).Seconds())
	}()

	if !d.Valid() {
		otel.RecordError(ctx, "get_facets", string(domain.KindQuery))
		return nil, &domain.QueryError{Op: "GetFacets", Err: domain.ErrUnknownDomain}
	}

	dist, err := u.searchEngine.FacetDistribution(ctx, d, domain.FacetDimensions)
	if err != nil {
		otel.RecordError(ctx, "get_facets", string(domain.KindQuery))
		return nil, &domain.QueryError{Op: "GetFacets", Err: err}
	}

	return &domain.FacetInfo{
		Genres:    facetValues(dist["genres"]),
		Years:     facetValues(dist["year"]),
		Languages: facetValues(dist["language"]),
	}, nil
}

// facetValues orders a distribution by descending count, then by value.
func facetValues(counts map[string]int64) []domain.FacetValue {
	values := make([]domain.FacetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, domain.FacetValue{Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
	return values
}
