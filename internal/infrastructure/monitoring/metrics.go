package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type LedgerMetrics struct {
	LoansCreatedTotal      *prometheus.CounterVec
	PaymentsTotal          *prometheus.CounterVec
	PaymentAmountTotal     prometheus.Counter
	StatusTransitionsTotal *prometheus.CounterVec
	SweepRunsTotal         *prometheus.CounterVec
	EventsConsumedTotal    *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_ledger_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Ledger = LedgerMetrics{
		LoansCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_loans_created_total",
				Help: "Total number of loans disbursed, by purpose.",
			},
			[]string{"purpose"},
		),
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_payments_total",
				Help: "Total number of loan payment attempts, by outcome.",
			},
			[]string{"status"},
		),
		PaymentAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_ledger_payment_amount_total",
				Help: "Sum of all successfully applied loan payments.",
			},
		),
		StatusTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_status_transitions_total",
				Help: "Total number of loan status transitions.",
			},
			[]string{"from", "to"},
		),
		SweepRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_overdue_sweep_runs_total",
				Help: "Total number of overdue sweep runs, by outcome.",
			},
			[]string{"status"},
		),
		EventsConsumedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_events_consumed_total",
				Help: "Total number of loan events consumed by the notifier.",
			},
			[]string{"routing_key"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordLoanCreated(purpose string) {
	Ledger.LoansCreatedTotal.WithLabelValues(purpose).Inc()
}

// RecordPayment counts a payment attempt. amount is only added for successful payments.
func RecordPayment(status string, amount float64) {
	Ledger.PaymentsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		Ledger.PaymentAmountTotal.Add(amount)
	}
}

func RecordStatusTransition(from, to string) {
	Ledger.StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordSweepRun(status string) {
	Ledger.SweepRunsTotal.WithLabelValues(status).Inc()
}

func RecordEventConsumed(routingKey string) {
	Ledger.EventsConsumedTotal.WithLabelValues(routingKey).Inc()
}
