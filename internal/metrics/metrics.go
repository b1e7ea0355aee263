package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subledger_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subledger_http_rate_limited_total",
			Help: "Mutating requests rejected by the rate limiter",
		},
	)

	// Ledger
	LedgerMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subledger_ledger_mutations_total",
			Help: "Ledger add/remove attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)
	LedgerActiveSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subledger_active_subscriptions",
			Help: "Number of subscriptions currently in the ledger",
		},
	)
	LedgerMonthlyTotalCents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subledger_monthly_total_cents",
			Help: "Sum of monthly prices in cents",
		},
	)
	StorageDroppedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subledger_storage_dropped_records_total",
			Help: "Persisted records rejected by validation on load",
		},
	)

	// Export worker
	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subledger_sheet_exports_total",
			Help: "Spreadsheet exports by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RateLimitedTotal,
		LedgerMutationsTotal,
		LedgerActiveSubscriptions,
		LedgerMonthlyTotalCents,
		StorageDroppedRecords,
		ExportsTotal,
	)
}

// ObserveLedger publishes the current ledger size and monthly total.
func ObserveLedger(count int, monthlyCents int64) {
	LedgerActiveSubscriptions.Set(float64(count))
	LedgerMonthlyTotalCents.Set(float64(monthlyCents))
}

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeIgnored = "ignored"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)
