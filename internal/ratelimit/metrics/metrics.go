package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sudsy_ratelimit_decisions_total",
			Help: "Rate limit admission decisions by endpoint class and outcome",
		}, []string{"class", "outcome"}),
	}
}

func (m *Metrics) IncrementDecision(class, outcome string) {
	m.Decisions.WithLabelValues(class, outcome).Inc()
}
