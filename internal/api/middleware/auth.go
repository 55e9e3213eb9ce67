package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// Authenticate extracts the bearer token, resolves it to an identity and
// attaches that identity to the request. Every failure is a 401.
func Authenticate(resolver ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject("missing_header", "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject("malformed_header", "invalid authorization header")
			}

			id, err := resolver.ResolveIdentity(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					return reject("expired", "token expired")
				case errors.Is(err, domain.ErrTokenInvalid):
					return reject("invalid_token", "invalid token")
				case errors.Is(err, domain.ErrUserNotFound):
					return reject("unknown_user", "invalid token")
				}
				log.Warn().Err(err).Str("path", c.Path()).Msg("identity resolution failed")
				return reject("unresolved", "invalid token")
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

func reject(reason, msg string) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
