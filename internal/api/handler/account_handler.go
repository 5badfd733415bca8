package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrinesorocabana/portal/internal/api/metrics"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
)

// AccountHandler serves the admin account-management routes. Errors are
// returned to the echo HTTPErrorHandler, which maps domain sentinels.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// List handles GET /api/admin/accounts.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  accountListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountListResponse(accounts))
}

// Get handles GET /api/admin/accounts/:id.
//
// @Summary      Get an account
// @Tags         admin
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Create handles POST /api/admin/accounts. The password is hashed by the service.
//
// @Summary      Create an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	account, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   active,
	})
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(account.Role.String()).Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// SetActive handles PATCH /api/admin/accounts/:id/active.
//
// @Summary      Enable or disable an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      string            true  "Account ID"
// @Param        body  body      setActiveRequest  true  "Desired status"
// @Success      200   {object}  accountResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/accounts/{id}/active [patch]
func (h *AccountHandler) SetActive(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	id := c.Param("id")
	if id == principal.AccountID && !*req.Active {
		return echo.NewHTTPError(http.StatusConflict, "cannot disable the authenticated account")
	}

	account, err := h.service.SetActive(c.Request().Context(), id, *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete handles DELETE /api/admin/accounts/:id.
//
// @Summary      Delete an account
// @Tags         admin
// @Security     BasicAuth
// @Param        id   path  string  true  "Account ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/admin/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if id == principal.AccountID {
		return echo.NewHTTPError(http.StatusConflict, "cannot delete the authenticated account")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /api/admin/summary.
//
// @Summary      Dashboard summary
// @Tags         admin
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/summary [get]
func (h *AccountHandler) Summary(c echo.Context) error {
	total, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponse{TotalAccounts: total})
}
