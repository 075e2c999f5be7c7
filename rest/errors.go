package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"search-orchestrator/domain"
	"search-orchestrator/logger"
	"search-orchestrator/utils"
)

const (
	kindBadRequest      = "bad_request"
	kindInvalidDocument = "invalid_document"
	kindInternal        = "internal_error"
)

// requestError is a malformed caller input detected before reaching a
// usecase.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// classify maps a failure to its HTTP status and wire kind.
func classify(err error) (int, string) {
	var reqErr *requestError
	var secErr *utils.SecurityError
	switch {
	case errors.As(err, &reqErr), errors.As(err, &secErr):
		return http.StatusBadRequest, kindBadRequest
	case errors.Is(err, domain.ErrUnknownDomain):
		return http.StatusBadRequest, string(domain.KindQuery)
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, kindInvalidDocument
	}

	kind, ok := domain.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, kindInternal
	}
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound, string(kind)
	case domain.KindQuery, domain.KindImport:
		return http.StatusBadGateway, string(kind)
	case domain.KindConfiguration:
		return http.StatusInternalServerError, string(kind)
	default:
		return http.StatusInternalServerError, string(kind)
	}
}

func writeError(c echo.Context, err error) error {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		logger.GlobalContext.WithContext(c.Request().Context()).ErrorContext(c.Request().Context(),
			"request failed", "kind", kind, "error", err)
	}
	return c.JSON(status, errorResponse{Error: errorBody{Kind: kind, Message: err.Error()}})
}
