package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"search-orchestrator/logger"
)

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// CustomHTTPErrorHandler renders errors that escaped the handlers (auth
// rejections, unknown routes, panics) in the same body shape the API uses for
// domain failures. 5xx messages are not exposed.
func CustomHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		requestID := logger.RequestIDFromContext(ctx)

		status := http.StatusInternalServerError
		msg := http.StatusText(status)
		kind := "internal_error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			kind = "http_error"
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "unhandled error", "request_id", requestID, "status", status, "error", err)
			msg = http.StatusText(status)
		} else {
			log.WarnContext(ctx, "http error", "request_id", requestID, "status", status, "message", msg)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorResponse{Error: errorDetail{Kind: kind, Message: msg}})
		}
		if err != nil {
			log.ErrorContext(ctx, "failed to send error response", "request_id", requestID, "error", err)
		}
	}
}
