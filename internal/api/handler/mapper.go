package handler

import "github.com/vitrinesorocabana/portal/internal/core/domain"

func toPrincipalResponse(p *domain.Principal) principalResponse {
	return principalResponse{
		AccountID:             p.AccountID,
		Email:                 p.Email,
		Authority:             p.Authority.String(),
		Enabled:               p.Enabled,
		AccountNonExpired:     p.AccountNonExpired,
		AccountNonLocked:      p.AccountNonLocked,
		CredentialsNonExpired: p.CredentialsNonExpired,
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role.String(),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAccountListResponse(accounts []*domain.Account) accountListResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return accountListResponse{Accounts: out, Total: len(out)}
}
