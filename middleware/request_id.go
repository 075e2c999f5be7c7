package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"search-orchestrator/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

// RequestIDMiddleware keeps a caller-supplied X-Request-ID when it is a short
// token of visible ASCII and replaces it with a fresh uuid otherwise. The id
// is echoed in the response, stored for the context logger and set on the
// active span.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if !validRequestID(requestID) {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, requestID)

			ctx := c.Request().Context()
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request.id", requestID))
			c.SetRequest(c.Request().WithContext(logger.WithRequestID(ctx, requestID)))

			return next(c)
		}
	}
}

// validRequestID accepts 1..maxRequestIDLength bytes of printable ASCII
// without spaces.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
