package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	CreditsIssued    prometheus.Counter
	CreditsSpent     prometheus.Counter
	LedgerErrors     *prometheus.CounterVec
	LedgerDuration   prometheus.Histogram
	ContentionFailed prometheus.Counter

	// Import metrics
	ImportJobs     prometheus.Counter
	ImportRows     *prometheus.CounterVec
	ImportDuration prometheus.Histogram

	// Deal metrics
	DealsCreated prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CreditsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadforge_credits_issued_total",
			Help: "Total credits added across all accounts",
		}),
		CreditsSpent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadforge_credits_spent_total",
			Help: "Total credits deducted across all accounts",
		}),
		LedgerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadforge_ledger_errors_total",
				Help: "Total ledger operation errors by type",
			},
			[]string{"error_type"},
		),
		LedgerDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadforge_ledger_operation_duration_seconds",
			Help:    "Duration of ledger credit/debit operations",
			Buckets: prometheus.DefBuckets,
		}),
		ContentionFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadforge_ledger_contention_failures_total",
			Help: "Ledger operations that exhausted the retry budget",
		}),

		ImportJobs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadforge_import_jobs_total",
			Help: "Total import jobs started",
		}),
		ImportRows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadforge_import_rows_total",
				Help: "Total import rows processed by result",
			},
			[]string{"result"},
		),
		ImportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadforge_import_duration_seconds",
			Help:    "Duration of import batch runs",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 300},
		}),

		DealsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadforge_deals_created_total",
			Help: "Total deals created",
		}),
	}
}
