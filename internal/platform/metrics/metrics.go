package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomePosted             = "posted"
	OutcomeAlreadyPosted      = "already_posted"
	OutcomeInvalidTransition  = "invalid_transition"
	OutcomeSeparationOfDuties = "separation_of_duties"
	OutcomeForbidden          = "forbidden"
	OutcomeNotFound           = "not_found"
	OutcomeConflict           = "conflict"
	OutcomeError              = "error"
	OutcomeCreated            = "created"
	OutcomeRejected           = "rejected"
)

// Metrics contains the Prometheus collectors exported by the ledger.
type Metrics struct {
	EntriesCreated     *prometheus.CounterVec
	EntriesCancelled   prometheus.Counter
	PostingAttempts    *prometheus.CounterVec
	PostingDuration    prometheus.Histogram
	LedgerRowsAppended prometheus.Counter
}

// NewMetrics initializes and registers metrics with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers metrics with a custom registry.
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		EntriesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_journal_entries_created_total",
			Help: "Journal entry creation attempts by outcome",
		}, []string{"outcome"}),
		EntriesCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_journal_entries_cancelled_total",
			Help: "Draft journal entries cancelled",
		}),
		PostingAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_posting_attempts_total",
			Help: "Posting attempts by outcome",
		}, []string{"outcome"}),
		PostingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_posting_duration_seconds",
			Help:    "Time spent inside the posting transaction",
			Buckets: prometheus.DefBuckets,
		}),
		LedgerRowsAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_rows_appended_total",
			Help: "General ledger rows appended by posting",
		}),
	}
}
