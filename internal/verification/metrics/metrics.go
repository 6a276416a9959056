package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ClaimsInitiated prometheus.Counter
	ChecksTotal     *prometheus.CounterVec
	CheckDuration   prometheus.Histogram
	PollerRuns      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ClaimsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sudsy_domain_claims_initiated_total",
			Help: "Total number of custom-domain claims initiated",
		}),
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sudsy_domain_checks_total",
			Help: "DNS verification checks by outcome (verified, failed, expired)",
		}, []string{"outcome"}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sudsy_domain_check_duration_seconds",
			Help:    "Duration of a single claim's DNS check and settle",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PollerRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sudsy_domain_poller_runs_total",
			Help: "Total number of verification poller batch runs",
		}),
	}
}

func (m *Metrics) IncrementClaimInitiated() {
	m.ClaimsInitiated.Inc()
}

func (m *Metrics) ObserveCheck(outcome string, start time.Time) {
	m.ChecksTotal.WithLabelValues(outcome).Inc()
	m.CheckDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementPollerRun() {
	m.PollerRuns.Inc()
}
