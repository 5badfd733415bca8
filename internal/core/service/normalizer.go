package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
)

// NormalizeMode selects whether drifted well-known digests are rewritten or only reported.
type NormalizeMode string

const (
	NormalizeRepair NormalizeMode = "repair"
	NormalizeReport NormalizeMode = "report"
)

// ParseNormalizeMode maps a config value to a mode. Unknown values fall back to repair.
func ParseNormalizeMode(s string) NormalizeMode {
	if NormalizeMode(s) == NormalizeReport {
		return NormalizeReport
	}
	return NormalizeRepair
}

type normalizer struct {
	repo      ports.AccountRepository
	hasher    ports.PasswordHasher
	wellKnown domain.WellKnownSet
	mode      NormalizeMode
	log       zerolog.Logger
	now       func() time.Time
}

// NewNormalizer returns the startup step that keeps well-known accounts consistent with their secret.
func NewNormalizer(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	wellKnown domain.WellKnownSet,
	mode NormalizeMode,
	log zerolog.Logger,
) ports.Normalizer {
	return &normalizer{
		repo:      repo,
		hasher:    hasher,
		wellKnown: wellKnown,
		mode:      mode,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run performs one pass over every stored account.
//
// A failed bulk read is fatal and wraps domain.ErrStoreUnavailable. Failures on single
// accounts are recorded in the report and returned joined under
// domain.ErrNormalizationIncomplete once every account has been visited.
func (n *normalizer) Run(ctx context.Context) (*ports.NormalizationReport, error) {
	accounts, err := n.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w: %w", domain.ErrStoreUnavailable, err)
	}

	report := &ports.NormalizationReport{Accounts: make([]ports.AccountNormalization, 0, len(accounts))}
	for _, account := range accounts {
		entry := n.normalize(ctx, account)
		n.logEntry(entry)
		report.Accounts = append(report.Accounts, entry)
	}

	n.log.Info().
		Int("accounts", len(report.Accounts)).
		Int("reconciled", report.Count(ports.OutcomeReconciled)).
		Int("unchanged", report.Count(ports.OutcomeUnchanged)).
		Int("drift_detected", report.Count(ports.OutcomeDriftDetected)).
		Int("failed", report.Count(ports.OutcomeFailed)).
		Str("mode", string(n.mode)).
		Msg("credential normalization finished")

	if err := report.Err(); err != nil {
		return report, fmt.Errorf("%w: %w", domain.ErrNormalizationIncomplete, err)
	}
	return report, nil
}

func (n *normalizer) normalize(ctx context.Context, account *domain.Account) ports.AccountNormalization {
	entry := ports.AccountNormalization{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
		Outcome:   ports.OutcomeSkipped,
	}

	class, secret, ok := n.wellKnown.Lookup(account.Email)
	if !ok {
		return entry
	}
	entry.WellKnown = true
	entry.Class = class
	entry.DigestMalformed = n.hasher.Validate(account.PasswordHash) != nil

	if n.hasher.Matches(secret, account.PasswordHash) {
		entry.Outcome = ports.OutcomeUnchanged
		n.diagnose(&entry, account.PasswordHash)
		return entry
	}

	if n.mode == NormalizeReport {
		entry.Outcome = ports.OutcomeDriftDetected
		n.diagnose(&entry, account.PasswordHash)
		return entry
	}

	digest, err := n.hasher.Hash(secret)
	if err != nil {
		entry.Outcome = ports.OutcomeFailed
		entry.Err = fmt.Errorf("account %s: hash: %w", account.ID, err)
		return entry
	}

	// Only the digest is written: the snapshot from FindAll may be stale by now.
	if err := n.repo.UpdatePasswordHash(ctx, account.ID, digest, n.now()); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Deleted since the bulk read; nothing left to reconcile.
			entry.Outcome = ports.OutcomeSkipped
			return entry
		}
		entry.Outcome = ports.OutcomeFailed
		entry.Err = fmt.Errorf("account %s: save: %w", account.ID, err)
		n.diagnose(&entry, account.PasswordHash)
		return entry
	}

	entry.Outcome = ports.OutcomeReconciled
	n.diagnose(&entry, digest)
	return entry
}

// diagnose fills the read-only secret-match flags for a well-known account.
func (n *normalizer) diagnose(entry *ports.AccountNormalization, digest string) {
	if secret, ok := n.wellKnown.Secret(domain.SecretClassAdmin); ok {
		entry.MatchesAdminSecret = n.hasher.Matches(secret, digest)
	}
	if secret, ok := n.wellKnown.Secret(domain.SecretClassUser); ok {
		entry.MatchesUserSecret = n.hasher.Matches(secret, digest)
	}
}

func (n *normalizer) logEntry(entry ports.AccountNormalization) {
	var ev *zerolog.Event
	switch entry.Outcome {
	case ports.OutcomeReconciled, ports.OutcomeDriftDetected:
		ev = n.log.Warn()
	case ports.OutcomeFailed:
		ev = n.log.Error().Err(entry.Err)
	case ports.OutcomeSkipped:
		ev = n.log.Debug()
	default:
		ev = n.log.Info()
	}

	ev = ev.
		Str("account_id", entry.AccountID).
		Str("email", entry.Email).
		Str("role", entry.Role.String()).
		Str("outcome", string(entry.Outcome))
	if entry.WellKnown {
		ev = ev.
			Str("class", string(entry.Class)).
			Bool("digest_malformed", entry.DigestMalformed).
			Bool("matches_admin_secret", entry.MatchesAdminSecret).
			Bool("matches_user_secret", entry.MatchesUserSecret)
	}
	ev.Msg("credential normalization")
}
