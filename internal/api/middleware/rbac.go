package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
)

// RequireRoles admits callers holding at least one of roles. With no roles any
// authenticated caller passes. It must run after Authenticate; a request with
// no identity is rejected as unauthenticated, never as forbidden.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := append([]domain.Role(nil), roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !id.HasAnyRole(allowed...) {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
