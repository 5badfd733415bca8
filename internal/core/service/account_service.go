package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
)

var validate = validator.New()

type accountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

// NewAccountService returns the account-management use cases.
func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, log zerolog.Logger) ports.AccountService {
	return &accountService{
		repo:   repo,
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *accountService) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	if id == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.repo.FindByEmail(ctx, email)
}

// Create registers a new account. The password is always hashed here; callers cannot store a digest directly.
func (s *accountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	role := domain.Role(in.Role)
	if email == "" || in.Password == "" || !role.IsValid() {
		return nil, domain.ErrInvalidAccount
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAccount, err)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if exists {
		return nil, domain.ErrAccountExists
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	now := s.now()
	created, err := s.repo.Save(ctx, &domain.Account{
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		Active:       in.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info().
		Str("account_id", created.ID).
		Str("email", created.Email).
		Str("role", created.Role.String()).
		Msg("account created")
	return created, nil
}

func (s *accountService) SetActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Active == active {
		return account, nil
	}

	account.Active = active
	account.UpdatedAt = s.now()
	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("set account active: %w", err)
	}

	s.log.Info().Str("account_id", saved.ID).Bool("active", saved.Active).Msg("account status changed")
	return saved, nil
}

func (s *accountService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrAccountNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

func (s *accountService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *accountService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	return s.repo.ExistsByEmail(ctx, email)
}
