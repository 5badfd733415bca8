package ports

import (
	"context"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

// AuthenticationLookup resolves an email to a principal without checking the password.
type AuthenticationLookup interface {
	Resolve(ctx context.Context, email string) (*domain.Principal, error)
}

// AuthService is the login pipeline: lookup followed by the password match.
type AuthService interface {
	AuthenticationLookup
	Authenticate(ctx context.Context, email, password string) (*domain.Principal, error)
}
