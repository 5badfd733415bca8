package ports

import (
	"context"
	"errors"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
)

// NormalizationOutcome is what the startup normalizer did with one account.
type NormalizationOutcome string

const (
	OutcomeSkipped       NormalizationOutcome = "skipped"
	OutcomeUnchanged     NormalizationOutcome = "unchanged"
	OutcomeReconciled    NormalizationOutcome = "reconciled"
	OutcomeDriftDetected NormalizationOutcome = "drift_detected"
	OutcomeFailed        NormalizationOutcome = "failed"
)

// AccountNormalization is the per-account entry of a normalization report.
// It never carries a secret or a digest.
type AccountNormalization struct {
	AccountID          string
	Email              string
	Role               domain.Role
	WellKnown          bool
	Class              domain.SecretClass
	Outcome            NormalizationOutcome
	DigestMalformed    bool
	MatchesAdminSecret bool
	MatchesUserSecret  bool
	Err                error
}

// NormalizationReport summarizes one pass over the credential store.
type NormalizationReport struct {
	Accounts []AccountNormalization
}

// Count returns how many accounts ended with outcome.
func (r *NormalizationReport) Count(outcome NormalizationOutcome) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, a := range r.Accounts {
		if a.Outcome == outcome {
			n++
		}
	}
	return n
}

// Err joins the per-account failures, or returns nil when there were none.
func (r *NormalizationReport) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, a := range r.Accounts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errors.Join(errs...)
}

// Normalizer reconciles well-known accounts with their expected secret.
type Normalizer interface {
	Run(ctx context.Context) (*NormalizationReport, error)
}
