// Package metrics defines and registers all custom Prometheus metrics for the
// user service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_service"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts successful registrations.
// Label:
//   - role: the role assigned at registration ("ADMIN" or "AUTHOR")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful registrations, by assigned role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LoginsThrottledTotal counts logins rejected by the rate limiter.
var LoginsThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_throttled_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)

// UsersDeletedTotal counts successful account deletions.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of deleted accounts.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts account events handed to the audit dispatcher.
// Label:
//   - action: "registered", "logged_in", "updated", or "deleted"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of account events enqueued for the audit trail.",
	},
	[]string{"action"},
)
