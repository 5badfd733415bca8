package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

func newAuthSvc(t *testing.T, repo *stubAccountRepo) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, testHasher(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func seedAccount(repo *stubAccountRepo, email, password string, role domain.Role, active bool) string {
	return repo.seed(&domain.Account{
		Email:        email,
		PasswordHash: mustHash(testHasher(), password),
		Role:         role,
		Active:       active,
	})
}

func TestAuthService_Resolve_Success(t *testing.T) {
	repo := newStubAccountRepo()
	id := seedAccount(repo, "admin@vitrine.com", "admin123", domain.RoleAdmin, true)
	svc := newAuthSvc(t, repo)

	p, err := svc.Resolve(context.Background(), "admin@vitrine.com")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if p.AccountID != id || p.Email != "admin@vitrine.com" {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if p.Authority != domain.RoleAdmin {
		t.Fatalf("expected admin authority, got %s", p.Authority)
	}
	if p.Digest != repo.get(id).PasswordHash {
		t.Fatalf("principal must expose the stored digest")
	}
	if !p.Enabled || !p.AccountNonExpired || !p.AccountNonLocked || !p.CredentialsNonExpired {
		t.Fatalf("expected all status flags set, got %+v", p)
	}
}

func TestAuthService_Resolve_CaseInsensitive(t *testing.T) {
	repo := newStubAccountRepo()
	id := seedAccount(repo, "admin@vitrine.com", "admin123", domain.RoleAdmin, true)
	svc := newAuthSvc(t, repo)

	upper, err := svc.Resolve(context.Background(), "ADMIN@vitrine.com")
	if err != nil {
		t.Fatalf("Resolve upper: %v", err)
	}
	lower, err := svc.Resolve(context.Background(), "admin@vitrine.com")
	if err != nil {
		t.Fatalf("Resolve lower: %v", err)
	}
	if upper.AccountID != id || lower.AccountID != id {
		t.Fatalf("expected both lookups to resolve %s, got %s and %s", id, upper.AccountID, lower.AccountID)
	}
}

func TestAuthService_Resolve_NotFound(t *testing.T) {
	svc := newAuthSvc(t, newStubAccountRepo())

	if _, err := svc.Resolve(context.Background(), "unknown@x.com"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "   "); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for blank email, got %v", err)
	}
}

func TestAuthService_Resolve_Disabled(t *testing.T) {
	repo := newStubAccountRepo()
	seedAccount(repo, "user@vitrine.com", "user123", domain.RoleUser, false)
	svc := newAuthSvc(t, repo)

	if _, err := svc.Resolve(context.Background(), "user@vitrine.com"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Resolve_ActiveWithoutRole(t *testing.T) {
	repo := newStubAccountRepo()
	repo.seed(&domain.Account{Email: "odd@vitrine.com", PasswordHash: mustHash(testHasher(), "x"), Active: true})
	svc := newAuthSvc(t, repo)

	if _, err := svc.Resolve(context.Background(), "odd@vitrine.com"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Resolve_StoreUnavailable(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = errStoreDown
	svc := newAuthSvc(t, repo)

	_, err := svc.Resolve(context.Background(), "admin@vitrine.com")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected underlying cause to be preserved, got %v", err)
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	repo := newStubAccountRepo()
	seedAccount(repo, "admin@vitrine.com", "admin123", domain.RoleAdmin, true)
	svc := newAuthSvc(t, repo)

	p, err := svc.Authenticate(context.Background(), "Admin@Vitrine.com", "admin123")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if !p.HasAuthority(domain.RoleAdmin) {
		t.Fatalf("expected admin principal, got %+v", p)
	}
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	seedAccount(repo, "admin@vitrine.com", "admin123", domain.RoleAdmin, true)
	svc := newAuthSvc(t, repo)

	if _, err := svc.Authenticate(context.Background(), "admin@vitrine.com", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_DisabledEvenWithCorrectPassword(t *testing.T) {
	repo := newStubAccountRepo()
	seedAccount(repo, "user@vitrine.com", "user123", domain.RoleUser, false)
	svc := newAuthSvc(t, repo)

	if _, err := svc.Authenticate(context.Background(), "user@vitrine.com", "user123"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownAccount(t *testing.T) {
	svc := newAuthSvc(t, newStubAccountRepo())

	if _, err := svc.Authenticate(context.Background(), "ghost@vitrine.com", "pass"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
