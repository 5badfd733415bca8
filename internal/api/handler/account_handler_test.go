package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitrinesorocabana/portal/internal/api/middleware"
	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
)

type stubAccountService struct {
	listFn      func(ctx context.Context) ([]*domain.Account, error)
	getFn       func(ctx context.Context, id string) (*domain.Account, error)
	createFn    func(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error)
	setActiveFn func(ctx context.Context, id string, active bool) (*domain.Account, error)
	deleteFn    func(ctx context.Context, id string) error
	countFn     func(ctx context.Context) (int64, error)
}

func (s *stubAccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, in)
}

func (s *stubAccountService) SetActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	return s.setActiveFn(ctx, id, active)
}

func (s *stubAccountService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAccountService) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func (s *stubAccountService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

var adminPrincipal = &domain.Principal{AccountID: "acc-admin", Email: "admin@vitrine.com", Authority: domain.RoleAdmin, Enabled: true}

func newAccountContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := newEcho()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.PrincipalKey, adminPrincipal)
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAccountHandler_List(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubAccountService{
		listFn: func(ctx context.Context) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: "1", Email: "admin@vitrine.com", PasswordHash: "$2a$10$digest", Role: domain.RoleAdmin, Active: true, CreatedAt: created},
				{ID: "2", Email: "user@vitrine.com", PasswordHash: "$2a$10$digest", Role: domain.RoleUser, Active: false, CreatedAt: created},
			}, nil
		},
	}
	c, rec := newAccountContext(http.MethodGet, "/api/admin/accounts", "")

	if err := NewAccountHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "digest") {
		t.Fatalf("digest leaked in response: %s", rec.Body.String())
	}

	var resp accountListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 2 || resp.Accounts[1].Email != "user@vitrine.com" || resp.Accounts[1].Active {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	stub := &stubAccountService{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrAccountNotFound
		},
	}
	c, _ := newAccountContext(http.MethodGet, "/api/admin/accounts/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := NewAccountHandler(stub).Get(c)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountHandler_Create_Success(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
			if in.Email != "new@vitrine.com" || in.Password != "s3cret!" || in.Role != "user" || !in.Active {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: "3", Email: in.Email, PasswordHash: "$2a$10$digest", Role: domain.RoleUser, Active: true}, nil
		},
	}
	c, rec := newAccountContext(http.MethodPost, "/api/admin/accounts", `{"email":"new@vitrine.com","password":"s3cret!","role":"user"}`)

	if err := NewAccountHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "s3cret") || strings.Contains(rec.Body.String(), "digest") {
		t.Fatalf("credential leaked in response: %s", rec.Body.String())
	}
}

func TestAccountHandler_Create_ExplicitInactive(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
			if in.Active {
				t.Fatalf("expected inactive account")
			}
			return &domain.Account{ID: "4", Email: in.Email, Role: domain.RoleUser}, nil
		},
	}
	c, _ := newAccountContext(http.MethodPost, "/api/admin/accounts", `{"email":"off@vitrine.com","password":"s3cret!","role":"user","active":false}`)

	if err := NewAccountHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAccountHandler_Create_ValidationFailure(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
			t.Fatalf("create should not be called")
			return nil, nil
		},
	}
	c, _ := newAccountContext(http.MethodPost, "/api/admin/accounts", `{"email":"new@vitrine.com","password":"s3cret!","role":"superuser"}`)

	err := NewAccountHandler(stub).Create(c)
	if code := httpCode(t, err); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestAccountHandler_Create_Duplicate(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrAccountExists
		},
	}
	c, _ := newAccountContext(http.MethodPost, "/api/admin/accounts", `{"email":"admin@vitrine.com","password":"s3cret!","role":"admin"}`)

	if err := NewAccountHandler(stub).Create(c); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAccountHandler_SetActive(t *testing.T) {
	stub := &stubAccountService{
		setActiveFn: func(ctx context.Context, id string, active bool) (*domain.Account, error) {
			if id != "2" || active {
				t.Fatalf("unexpected args: %s %v", id, active)
			}
			return &domain.Account{ID: id, Email: "user@vitrine.com", Role: domain.RoleUser, Active: false}, nil
		},
	}
	c, rec := newAccountContext(http.MethodPatch, "/api/admin/accounts/2/active", `{"active":false}`)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := NewAccountHandler(stub).SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_SetActive_MissingField(t *testing.T) {
	stub := &stubAccountService{
		setActiveFn: func(ctx context.Context, id string, active bool) (*domain.Account, error) {
			t.Fatalf("set active should not be called")
			return nil, nil
		},
	}
	c, _ := newAccountContext(http.MethodPatch, "/api/admin/accounts/2/active", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if code := httpCode(t, NewAccountHandler(stub).SetActive(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestAccountHandler_SetActive_RefusesSelfDisable(t *testing.T) {
	stub := &stubAccountService{
		setActiveFn: func(ctx context.Context, id string, active bool) (*domain.Account, error) {
			t.Fatalf("set active should not be called")
			return nil, nil
		},
	}
	c, _ := newAccountContext(http.MethodPatch, "/api/admin/accounts/acc-admin/active", `{"active":false}`)
	c.SetParamNames("id")
	c.SetParamValues(adminPrincipal.AccountID)

	if code := httpCode(t, NewAccountHandler(stub).SetActive(c)); code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	deleted := ""
	stub := &stubAccountService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	c, rec := newAccountContext(http.MethodDelete, "/api/admin/accounts/2", "")
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := NewAccountHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != "2" {
		t.Fatalf("expected 204 deleting 2, got %d deleting %q", rec.Code, deleted)
	}
}

func TestAccountHandler_Delete_RefusesSelf(t *testing.T) {
	stub := &stubAccountService{
		deleteFn: func(ctx context.Context, id string) error {
			t.Fatalf("delete should not be called")
			return nil
		},
	}
	c, _ := newAccountContext(http.MethodDelete, "/api/admin/accounts/acc-admin", "")
	c.SetParamNames("id")
	c.SetParamValues(adminPrincipal.AccountID)

	if code := httpCode(t, NewAccountHandler(stub).Delete(c)); code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
}

func TestAccountHandler_Delete_WithoutPrincipal(t *testing.T) {
	stub := &stubAccountService{}
	e := newEcho()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/accounts/2", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if code := httpCode(t, NewAccountHandler(stub).Delete(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAccountHandler_Summary(t *testing.T) {
	stub := &stubAccountService{
		countFn: func(ctx context.Context) (int64, error) { return 3, nil },
	}
	c, rec := newAccountContext(http.MethodGet, "/api/admin/summary", "")

	if err := NewAccountHandler(stub).Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"total_accounts":3}` {
		t.Fatalf("unexpected body: %s", got)
	}
}
