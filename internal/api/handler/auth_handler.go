package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vitrinesorocabana/portal/internal/api/metrics"
	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Login checks an email/password pair and returns the resolved principal.
// No session or token is issued.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	principal, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Store failures are checked first: the lookup wraps the cause under it.
		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			metrics.LoginAttemptsTotal.WithLabelValues("store_unavailable").Inc()
			h.log.Error().Err(err).Msg("login failed: credential store unavailable")
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
		case errors.Is(err, domain.ErrInvalidCredentials),
			errors.Is(err, domain.ErrAccountNotFound),
			errors.Is(err, domain.ErrAccountDisabled):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.log.Info().
		Str("account_id", principal.AccountID).
		Str("authority", principal.Authority.String()).
		Msg("login succeeded")
	return c.JSON(http.StatusOK, loginResponse{Principal: toPrincipalResponse(principal)})
}
