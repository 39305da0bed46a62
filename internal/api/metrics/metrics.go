// Package metrics defines and registers the custom Prometheus metrics of the
// membership API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto); HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "membership"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "unknown_user", "subscription_expired", "invalid_request" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts requests refused by the session guard.
// Label:
//   - reason: "missing", "expired", "invalid" or "forbidden"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by the session guard, by reason.",
	},
	[]string{"reason"},
)

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationSubmissionsTotal counts public join requests.
// Label:
//   - result: "accepted", "duplicate", "invalid" or "error"
var RegistrationSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_submissions_total",
		Help:      "Total number of registration requests submitted, by result.",
	},
	[]string{"result"},
)

// RegistrationDecisionsTotal counts admin decisions on join requests.
// Label:
//   - decision: "approved", "rejected" or "refused" (duplicate user, left pending)
var RegistrationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_decisions_total",
		Help:      "Total number of registration decisions, by outcome.",
	},
	[]string{"decision"},
)

// UsersCreatedTotal counts accounts created directly by an admin.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created through the admin API.",
	},
)
