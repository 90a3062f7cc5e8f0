// Package metrics defines and registers all custom Prometheus metrics for the
// MrManager API. It is the single source of truth for metric names, labels,
// and help strings. All metrics self-register with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mrmanager"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created.",
	},
)

// TokensIssuedTotal counts issued session tokens.
// Label:
//   - kind: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by kind.",
	},
	[]string{"kind"},
)

// PermissionDenialsTotal counts project permission check failures.
// Label:
//   - reason: "membership_missing" or "role_not_allowed"
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of rejected project-scoped requests, by reason.",
	},
	[]string{"reason"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailsSentTotal counts delivery attempts made by the mail dispatcher.
// Labels:
//   - kind: mail template ("verify", "reset")
//   - result: "ok" or "error"
var MailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_sent_total",
		Help:      "Total number of mail delivery attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// MailQueueDepth tracks the number of mails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of mails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
