package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Resolutions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sudsy_host_resolutions_total",
			Help: "Host header resolutions by routing kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementResolution(kind string) {
	m.Resolutions.WithLabelValues(kind).Inc()
}
