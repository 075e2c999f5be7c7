package rest

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the search API on e. Document writes go through
// adminAuth.
func RegisterRoutes(e *echo.Echo, h *Handler, adminAuth echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	v1 := e.Group("/v1")
	v1.GET("/search", h.Search)
	v1.GET("/facets", h.Facets)
	v1.POST("/web/import", h.ImportFromWeb)

	docs := v1.Group("/:index/documents")
	docs.GET("/:id", h.GetDocument)
	docs.POST("", h.CreateDocument, adminAuth)
	docs.PUT("/:id", h.UpdateDocument, adminAuth)
	docs.DELETE("/:id", h.DeleteDocument, adminAuth)
}
