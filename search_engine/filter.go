package search_engine

import (
	"fmt"
	"strconv"
	"strings"

	"search-orchestrator/domain"
)

// EscapeMeilisearchValue escapes backslashes and double quotes so a value can
// be embedded in a quoted filter literal.
func EscapeMeilisearchValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// CompileFilter turns facet selections into a Meilisearch filter expression.
// Genres form an OR-group; year and rating bounds are ANDed after it in that
// order. An empty string means no filter. Bounds are passed through as given,
// so yearMin > yearMax simply matches nothing.
func CompileFilter(genres []string, yearMin, yearMax *int, ratingMin *float64) string {
	conditions := make([]string, 0, 4)

	if len(genres) > 0 {
		genreFilters := make([]string, 0, len(genres))
		for _, g := range genres {
			genreFilters = append(genreFilters, fmt.Sprintf("genres = \"%s\"", EscapeMeilisearchValue(g)))
		}
		conditions = append(conditions, "("+strings.Join(genreFilters, " OR ")+")")
	}

	if yearMin != nil {
		conditions = append(conditions, "year >= "+strconv.Itoa(*yearMin))
	}
	if yearMax != nil {
		conditions = append(conditions, "year <= "+strconv.Itoa(*yearMax))
	}
	if ratingMin != nil {
		conditions = append(conditions, "rating >= "+strconv.FormatFloat(*ratingMin, 'f', -1, 64))
	}

	return strings.Join(conditions, " AND ")
}

// CompileFilterState compiles the facet selections of a filter state.
func CompileFilterState(state domain.FilterState) string {
	return CompileFilter(state.Genres, state.YearMin, state.YearMax, state.RatingMin)
}

// CompileSort returns the engine sort list; nil keeps relevance ranking.
func CompileSort(sort *domain.Sort) []string {
	if sort == nil {
		return nil
	}
	return []string{sort.String()}
}
