// Package metrics defines the custom Prometheus metrics of the Productr API.
// Request-level HTTP metrics come from echoprometheus; the counters here cover
// the auth and catalog flows.
//
// All metrics are registered with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "productr"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts successful signups.
// Label:
//   - channel: "email", "phone" or "both"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by identifier set.",
	},
	[]string{"channel"},
)

// OTPIssuedTotal counts OTP issuance outcomes.
// Labels:
//   - channel: "email" or "phone"
//   - result: "sent", "dev_fallback" or "failed"
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of OTPs issued, by channel and delivery result.",
	},
	[]string{"channel", "result"},
)

// OTPVerificationsTotal counts verification outcomes.
// Label:
//   - result: "success", "invalid", "expired", "locked" or "error"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of OTP verification attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ProductMutationsTotal counts successful catalog writes.
// Label:
//   - op: "create", "update", "delete" or "toggle_publish"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of product writes, by operation.",
	},
	[]string{"op"},
)
