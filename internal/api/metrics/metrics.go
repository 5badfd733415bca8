// Package metrics defines the custom Prometheus metrics of the portal
// credential service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vitrine"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts handled by the API.
// Label:
//   - outcome: "success", "invalid_credentials", "store_unavailable", "bad_request" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Normalization metrics ─────────────────────────────────────────────────────

// NormalizationAccountsTotal counts accounts visited by the startup normalizer.
// Label:
//   - outcome: "skipped", "unchanged", "reconciled", "drift_detected" or "failed"
var NormalizationAccountsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "normalization_accounts_total",
		Help:      "Total number of accounts processed by credential normalization, by outcome.",
	},
	[]string{"outcome"},
)

// NormalizationDuration measures how long a normalization pass took.
var NormalizationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "normalization_duration_seconds",
		Help:      "Duration of the startup credential normalization pass.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsCreatedTotal counts accounts created through the admin API.
// Label:
//   - role: "admin" or "user"
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)
