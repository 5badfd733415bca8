package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
)

// PrincipalKey is the echo context key holding the authenticated *domain.Principal.
const PrincipalKey = "principal"

const realm = "vitrine-admin"

// Auth authenticates every request with HTTP Basic credentials through the
// login pipeline and injects the resulting principal into the context.
// Unknown, disabled and wrong-password accounts are all rejected with 401;
// store failures propagate to the error handler.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return echomiddleware.BasicAuthWithConfig(echomiddleware.BasicAuthConfig{
		Realm: realm,
		Validator: func(email, password string, c echo.Context) (bool, error) {
			principal, err := auth.Authenticate(c.Request().Context(), email, password)
			switch {
			case err == nil:
				c.Set(PrincipalKey, principal)
				return true, nil
			case errors.Is(err, domain.ErrStoreUnavailable):
				return false, err
			default:
				return false, nil
			}
		},
	})
}

// PrincipalFrom returns the principal injected by Auth, if any.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*domain.Principal)
	return p, ok && p != nil
}
