package ports

import (
	"context"
	"time"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

// AccountRepository defines the credential store used by the auth core.
// FindByEmail and ExistsByEmail compare emails case-insensitively.
type AccountRepository interface {
	FindAll(ctx context.Context) ([]*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts the account when ID is empty and replaces it by ID otherwise.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// UpdatePasswordHash rewrites only the digest and updated_at of an existing
	// account. It returns domain.ErrAccountNotFound when no account has id.
	UpdatePasswordHash(ctx context.Context, id, digest string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
