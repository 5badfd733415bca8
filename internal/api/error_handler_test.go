package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", domain.ErrAccountNotFound, http.StatusNotFound, "account not found"},
		{"exists", fmt.Errorf("create account: %w", domain.ErrAccountExists), http.StatusConflict, "account already exists"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"disabled", domain.ErrAccountDisabled, http.StatusUnauthorized, "invalid credentials"},
		{"store unavailable", fmt.Errorf("resolve account: %w: %w", domain.ErrStoreUnavailable, domain.ErrAccountNotFound), http.StatusServiceUnavailable, "service unavailable"},
		{"echo error", echo.NewHTTPError(http.StatusUnprocessableEntity, "role is required"), http.StatusUnprocessableEntity, "role is required"},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantBody, rec.Body.String())
			}
		})
	}
}
