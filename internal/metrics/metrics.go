// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedemptionDuration tracks the latency of coupon redemptions.
	RedemptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lottery_redemption_duration_seconds",
			Help:    "Duration of coupon redemption requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"status"}, // success or failure
	)

	// AssignmentsTotal counts reward assignment attempts by outcome.
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_reward_assignments_total",
			Help: "Total reward assignment attempts by outcome",
		},
		[]string{"status"},
	)

	// ExpiredAccountsTotal counts reward accounts retired by the sweep.
	ExpiredAccountsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lottery_expired_reward_accounts_total",
			Help: "Total reward accounts expired by the retention sweep",
		},
	)
)

// RecordRedemption records the outcome and duration of a redemption.
func RecordRedemption(status string, duration float64) {
	RedemptionDuration.WithLabelValues(status).Observe(duration)
}

// RecordAssignment records the outcome of a reward assignment attempt.
func RecordAssignment(status string) {
	AssignmentsTotal.WithLabelValues(status).Inc()
}

// RecordExpiredAccounts adds the result of an expire sweep.
func RecordExpiredAccounts(count int64) {
	ExpiredAccountsTotal.Add(float64(count))
}
