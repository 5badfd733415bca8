package ports

import (
	"context"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

// CreateAccountInput carries the data needed to register an account.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
	Active   bool
}

// AccountService defines the account-management use cases exposed to admins.
type AccountService interface {
	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
