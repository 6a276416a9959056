package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TenantCreated     prometheus.Counter
	DirectoryLookups  *prometheus.CounterVec
	DirectoryDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		TenantCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sudsy_tenants_created_total",
			Help: "Total number of tenants created",
		}),
		DirectoryLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sudsy_tenant_directory_lookups_total",
			Help: "Tenant directory lookups by kind and outcome",
		}, []string{"kind", "outcome"}),
		DirectoryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sudsy_tenant_directory_lookup_duration_seconds",
			Help:    "Duration of tenant directory lookups (request hot path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementTenantCreated() {
	m.TenantCreated.Inc()
}

func (m *Metrics) ObserveDirectoryLookup(kind, outcome string, start time.Time) {
	m.DirectoryLookups.WithLabelValues(kind, outcome).Inc()
	m.DirectoryDuration.Observe(time.Since(start).Seconds())
}
