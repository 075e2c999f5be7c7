package rest

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"search-orchestrator/domain"
	"search-orchestrator/utils"
)

const defaultIndex = domain.Movies

// domainParam resolves an index name, defaulting to movies when absent.
func domainParam(s string) (domain.Domain, error) {
	if strings.TrimSpace(s) == "" {
		return defaultIndex, nil
	}
	return domain.ParseDomain(s)
}

// parseFilterState reads a FilterState from the search query string. Range
// values are passed on unchecked; only malformed numbers are rejected.
func parseFilterState(c echo.Context, sanitizer *utils.QuerySanitizer) (domain.FilterState, error) {
	params := c.QueryParams()

	d, err := domainParam(params.Get("index"))
	if err != nil {
		return domain.FilterState{}, err
	}

	query, err := sanitizer.SanitizeQuery(params.Get("q"))
	if err != nil {
		return domain.FilterState{}, err
	}

	state := domain.FilterState{
		Query:  query,
		Domain: d,
		Sort:   domain.ParseSort(params.Get("sort")),
	}

	for _, g := range params["genres"] {
		if g = strings.TrimSpace(g); g != "" {
			state.Genres = append(state.Genres, g)
		}
	}
	if err := sanitizer.ValidateFilterValues(state.Genres); err != nil {
		return domain.FilterState{}, err
	}

	if state.YearMin, err = optionalInt(params.Get("year_min"), "year_min"); err != nil {
		return domain.FilterState{}, err
	}
	if state.YearMax, err = optionalInt(params.Get("year_max"), "year_max"); err != nil {
		return domain.FilterState{}, err
	}
	if state.RatingMin, err = optionalFloat(params.Get("rating_min"), "rating_min"); err != nil {
		return domain.FilterState{}, err
	}

	page, err := optionalInt(params.Get("page"), "page")
	if err != nil {
		return domain.FilterState{}, err
	}
	if page != nil {
		if *page > domain.MaxPage {
			return domain.FilterState{}, badRequest("page must not exceed " + strconv.Itoa(domain.MaxPage))
		}
		state.Page = *page
	}
	state.Page = state.CurrentPage()

	return state, nil
}

func optionalInt(v, name string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &i, nil
}

func optionalFloat(v, name string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &f, nil
}
