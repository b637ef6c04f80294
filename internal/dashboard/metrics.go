package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	renders  *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cancerlens",
			Name:      "renders_total",
			Help:      "Dataset renders by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cancerlens",
			Name:      "render_duration_seconds",
			Help:      "Time spent loading, normalizing and summarizing the dataset.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.renders, m.duration)
	return m
}
