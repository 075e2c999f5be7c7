package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"search-orchestrator/domain"
	"search-orchestrator/logger"
)

// GetDocument handles GET /v1/:index/documents/:id.
func (h *Handler) GetDocument(c echo.Context) error {
	d, id, err := documentPath(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx := logger.WithDocumentID(logger.WithDomain(c.Request().Context(), d.String()), c.Param("id"))
	doc, err := h.documents.Get(ctx, d, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// CreateDocument handles POST /v1/:index/documents.
func (h *Handler) CreateDocument(c echo.Context) error {
	d, err := domainParam(c.Param("index"))
	if err != nil {
		return writeError(c, err)
	}
	doc, err := decodeBody(c, d)
	if err != nil {
		return writeError(c, err)
	}

	ctx := logger.WithDomain(c.Request().Context(), d.String())
	created, err := h.documents.Create(ctx, doc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateDocument handles PUT /v1/:index/documents/:id. The body must describe
// the document addressed by the path.
func (h *Handler) UpdateDocument(c echo.Context) error {
	d, id, err := documentPath(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := decodeBody(c, d)
	if err != nil {
		return writeError(c, err)
	}
	if bodyID(doc) != id {
		return writeError(c, badRequest("document id does not match path"))
	}

	ctx := logger.WithDocumentID(logger.WithDomain(c.Request().Context(), d.String()), c.Param("id"))
	updated, err := h.documents.Update(ctx, doc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteDocument handles DELETE /v1/:index/documents/:id.
func (h *Handler) DeleteDocument(c echo.Context) error {
	d, id, err := documentPath(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx := logger.WithDocumentID(logger.WithDomain(c.Request().Context(), d.String()), c.Param("id"))
	if err := h.documents.Delete(ctx, d, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func documentPath(c echo.Context) (domain.Domain, int64, error) {
	d, err := domainParam(c.Param("index"))
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return "", 0, badRequest("invalid document id")
	}
	return d, id, nil
}

func decodeBody(c echo.Context, d domain.Domain) (domain.Document, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, badRequest("unreadable request body")
	}
	doc, err := d.DecodeDocument(raw)
	if err != nil {
		return nil, badRequest("malformed document")
	}
	return doc, nil
}

// bodyID is the id a write of doc will land on. Web ids always come from the
// URL.
func bodyID(doc domain.Document) int64 {
	if w, ok := doc.(*domain.WebResult); ok {
		return domain.WebResultID(w.URL)
	}
	return doc.DocumentID()
}
