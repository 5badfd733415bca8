package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
)

// timingPlaceholder is hashed once per service so failed lookups cost one bcrypt comparison too.
const timingPlaceholder = "vitrine-timing-placeholder"

// AuthService resolves principals and verifies submitted passwords.
type AuthService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger

	dummyDigest string
}

func NewAuthService(repo ports.AccountRepository, hasher ports.PasswordHasher, log zerolog.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash(timingPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{repo: repo, hasher: hasher, log: log, dummyDigest: dummy}, nil
}

// Resolve maps email to a principal. It never compares passwords.
func (s *AuthService) Resolve(ctx context.Context, email string) (*domain.Principal, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrAccountNotFound
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("resolve account: %w: %w", domain.ErrStoreUnavailable, err)
	}

	if !account.Active {
		return nil, domain.ErrAccountDisabled
	}
	if !account.CanAuthenticate() {
		// An active record without a usable role or digest cannot produce a principal.
		s.log.Warn().Str("account_id", account.ID).Msg("active account is missing role or digest")
		return nil, domain.ErrAccountDisabled
	}

	return domain.NewPrincipal(account), nil
}

// Authenticate resolves email and checks password against the stored digest.
// Unknown and disabled accounts still pay for one comparison.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Principal, error) {
	principal, err := s.Resolve(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, domain.ErrAccountDisabled) {
			s.hasher.Matches(password, s.dummyDigest)
			s.log.Info().Err(err).Str("email", domain.NormalizeEmail(email)).Msg("login rejected")
		}
		return nil, err
	}

	if !s.hasher.Matches(password, principal.Digest) {
		s.log.Info().Str("account_id", principal.AccountID).Msg("login rejected: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	return principal, nil
}
