package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"search-orchestrator/domain"
	"search-orchestrator/logger"
	"search-orchestrator/utils"
)

type SearchService interface {
	Execute(ctx context.Context, state domain.FilterState) (*domain.SearchResult, error)
}

type FacetService interface {
	Execute(ctx context.Context, d domain.Domain) (*domain.FacetInfo, error)
}

type ImportService interface {
	Execute(ctx context.Context, query string) (*domain.SearchResult, error)
}

type DocumentService interface {
	Get(ctx context.Context, d domain.Domain, id int64) (domain.Document, error)
	Create(ctx context.Context, doc domain.Document) (domain.Document, error)
	Update(ctx context.Context, doc domain.Document) (domain.Document, error)
	Delete(ctx context.Context, d domain.Domain, id int64) error
}

type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// Handler contains all HTTP handlers of the search API.
type Handler struct {
	search    SearchService
	facets    FacetService
	importer  ImportService
	documents DocumentService
	health    HealthChecker
	sanitizer *utils.QuerySanitizer
}

func NewHandler(search SearchService, facets FacetService, importer ImportService, documents DocumentService, health HealthChecker) *Handler {
	return &Handler{
		search:    search,
		facets:    facets,
		importer:  importer,
		documents: documents,
		health:    health,
		sanitizer: utils.NewQuerySanitizer(nil),
	}
}

// SearchResponse is a result page together with its page links.
type SearchResponse struct {
	*domain.SearchResult
	Pagination domain.PageWindow `json:"pagination"`
}

func newSearchResponse(result *domain.SearchResult) SearchResponse {
	return SearchResponse{
		SearchResult: result,
		Pagination:   domain.Window(result.Page, result.TotalPages),
	}
}

type importRequest struct {
	Query string `json:"query"`
}

// Search handles GET /v1/search.
func (h *Handler) Search(c echo.Context) error {
	state, err := parseFilterState(c, h.sanitizer)
	if err != nil {
		return writeError(c, err)
	}

	ctx := logger.WithQuery(logger.WithDomain(c.Request().Context(), state.Domain.String()), state.Query)
	result, err := h.search.Execute(ctx, state)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newSearchResponse(result))
}

// Facets handles GET /v1/facets.
func (h *Handler) Facets(c echo.Context) error {
	d, err := domainParam(c.QueryParam("index"))
	if err != nil {
		return writeError(c, err)
	}

	ctx := logger.WithDomain(c.Request().Context(), d.String())
	info, err := h.facets.Execute(ctx, d)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// ImportFromWeb handles POST /v1/web/import.
func (h *Handler) ImportFromWeb(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("malformed request body"))
	}
	query, err := h.sanitizer.SanitizeQuery(req.Query)
	if err != nil {
		return writeError(c, err)
	}
	if query == "" {
		return writeError(c, badRequest("query is required"))
	}

	result, err := h.importer.Execute(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newSearchResponse(result))
}

// Health handles GET /health. It reports 503 while the index engine is
// unavailable.
func (h *Handler) Health(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Healthy(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
