package net

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are the hub's Prometheus collectors. Each hub owns its registry so
// several hubs can live in one process.
type metrics struct {
	registry *prometheus.Registry
	viewers  prometheus.Gauge
	messages *prometheus.CounterVec
	dropped  prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "doodler_viewers",
			Help: "Number of connected live stream viewers.",
		}),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doodler_messages_total",
				Help: "Messages broadcast to viewers, by type.",
			},
			[]string{"type"},
		),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doodler_viewers_dropped_total",
			Help: "Viewers disconnected for falling behind the stream.",
		}),
	}
	m.registry.MustRegister(m.viewers, m.messages, m.dropped)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
