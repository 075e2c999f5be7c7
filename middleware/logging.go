package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"search-orchestrator/logger"
)

// LoggingMiddleware logs request start and completion. The completion level
// follows the response status.
func LoggingMiddleware(baseLogger *slog.Logger, skipPaths ...string) echo.MiddlewareFunc {
	contextLogger := logger.NewContextLogger(baseLogger)
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := skip[req.URL.Path]; ok {
				return next(c)
			}

			start := time.Now()
			ctx := req.Context()
			log := contextLogger.WithContext(ctx)

			log.InfoContext(ctx, "request started",
				"method", req.Method,
				"path", req.URL.Path,
				"remote_addr", c.RealIP(),
				"user_agent", req.UserAgent(),
			)

			err := next(c)
			duration := time.Since(start)

			status := responseStatus(c, err)
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", duration.Milliseconds(),
				"response_size", c.Response().Size,
			}
			switch {
			case status >= 500:
				log.ErrorContext(ctx, "request completed", attrs...)
			case status >= 400:
				log.WarnContext(ctx, "request completed", attrs...)
			default:
				log.InfoContext(ctx, "request completed", attrs...)
			}

			if err != nil {
				log.ErrorContext(ctx, "request error",
					"method", req.Method,
					"path", req.URL.Path,
					"error", err,
					"duration_ms", duration.Milliseconds(),
				)
			}
			return err
		}
	}
}
