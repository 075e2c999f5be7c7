package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"search-orchestrator/config"
)

const adminRole = "admin"

var (
	errAuthDisabled  = errors.New("document writes disabled")
	errMissingToken  = errors.New("missing bearer token")
	errInvalidToken  = errors.New("invalid admin token")
	errInvalidClaims = errors.New("invalid claims")
	errInvalidIssuer = errors.New("invalid issuer")
	errNotAdmin      = errors.New("admin role required")
)

// AdminClaims are carried by tokens authorised to mutate documents.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AdminAuthMiddleware struct {
	logger *slog.Logger
	secret []byte
	issuer string
}

func NewAdminAuthMiddleware(logger *slog.Logger, cfg config.AuthConfig) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		logger: logger,
		secret: []byte(cfg.AdminTokenSecret),
		issuer: cfg.AdminTokenIssuer,
	}
}

// RequireAdmin rejects requests without a valid HMAC-signed admin bearer
// token. With no secret configured every request is refused.
func (m *AdminAuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := m.validate(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
				switch {
				case errors.Is(err, errAuthDisabled):
					return echo.NewHTTPError(http.StatusForbidden, "document writes are disabled")
				case errors.Is(err, errMissingToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
				case errors.Is(err, errNotAdmin):
					return echo.NewHTTPError(http.StatusForbidden, "admin role required")
				case errors.Is(err, errInvalidToken), errors.Is(err, errInvalidClaims), errors.Is(err, errInvalidIssuer):
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
				default:
					if m.logger != nil {
						m.logger.Error("admin token validation error", "error", err)
					}
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
				}
			}
			return next(c)
		}
	}
}

func (m *AdminAuthMiddleware) validate(header string) error {
	if len(m.secret) == 0 {
		return errAuthDisabled
	}

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	tokenStr = strings.TrimSpace(tokenStr)
	if !ok || tokenStr == "" {
		return errMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if !parsed.Valid {
		return errInvalidToken
	}

	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok {
		return errInvalidClaims
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return errInvalidIssuer
	}
	if claims.Role != adminRole {
		return errNotAdmin
	}
	return nil
}
