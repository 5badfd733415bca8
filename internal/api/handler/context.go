package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrinesorocabana/portal/internal/api/middleware"
	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Its absence means the route was mounted without Auth; reject with 401.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
