package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type principalResponse struct {
	AccountID             string `json:"account_id"`
	Email                 string `json:"email"`
	Authority             string `json:"authority"`
	Enabled               bool   `json:"enabled"`
	AccountNonExpired     bool   `json:"account_non_expired"`
	AccountNonLocked      bool   `json:"account_non_locked"`
	CredentialsNonExpired bool   `json:"credentials_non_expired"`
}

type loginResponse struct {
	Principal principalResponse `json:"principal"`
}

// --- Accounts ---

type createAccountRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=admin user"`
	Active   *bool  `json:"active"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type accountListResponse struct {
	Accounts []accountResponse `json:"accounts"`
	Total    int               `json:"total"`
}

type summaryResponse struct {
	TotalAccounts int64 `json:"total_accounts"`
}
