package domain

// Principal is the identity handed to the login pipeline after a successful lookup.
// Expiry and lockout are not tracked, so those flags are always true.
type Principal struct {
	AccountID             string `json:"account_id"`
	Email                 string `json:"email"`
	Digest                string `json:"-"`
	Authority             Role   `json:"authority"`
	Enabled               bool   `json:"enabled"`
	AccountNonExpired     bool   `json:"account_non_expired"`
	AccountNonLocked      bool   `json:"account_non_locked"`
	CredentialsNonExpired bool   `json:"credentials_non_expired"`
}

// NewPrincipal builds the principal for an active account.
func NewPrincipal(a *Account) *Principal {
	return &Principal{
		AccountID:             a.ID,
		Email:                 a.Email,
		Digest:                a.PasswordHash,
		Authority:             a.Role,
		Enabled:               a.Active,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}
}

// HasAuthority reports whether the principal was granted role.
func (p *Principal) HasAuthority(role Role) bool {
	return p != nil && p.Authority == role
}
