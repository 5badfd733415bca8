package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

// RBAC enforces role-based access control on the principal injected by Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing principal"})
			}
			if _, ok := allowed[principal.Authority]; !ok || !principal.Enabled {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
