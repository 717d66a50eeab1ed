package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry
	sends    *prometheus.CounterVec
	batches  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unisms",
			Name:      "sms_sends_total",
			Help:      "Outbound SMS send attempts by outcome.",
		}, []string{"outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unisms",
			Name:      "sms_batches_total",
			Help:      "Dispatched SMS batches by aggregate status.",
		}, []string{"status"}),
	}
	registry.MustRegister(m.sends, m.batches)
	return m
}

func (m *Metrics) ObserveSend(delivered bool) {
	if m == nil {
		return
	}
	outcome := OutcomeFailed
	if delivered {
		outcome = OutcomeDelivered
	}
	m.sends.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveBatch(status string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Sends(outcome string) prometheus.Counter {
	return m.sends.WithLabelValues(outcome)
}
