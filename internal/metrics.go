package internal

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "act"

// Metrics counts what a runtime does. Collectors are unregistered until Register is called.
type Metrics struct {
	Passes        prometheus.Counter
	Invocations   prometheus.Counter
	Retirements   prometheus.Counter
	Cancellations prometheus.Counter

	Scheduled prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "passes_total",
			Help:      "Number of completed passes over the schedule.",
		}),
		Invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invocations_total",
			Help:      "Number of action callbacks invoked.",
		}),
		Retirements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "retirements_total",
			Help:      "Number of actions retired because their callback returned false.",
		}),
		Cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cancellations_total",
			Help:      "Number of actions cancelled before finishing.",
		}),
		Scheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "scheduled_actions",
			Help:      "Number of actions currently in the schedule.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Passes,
		m.Invocations,
		m.Retirements,
		m.Cancellations,
		m.Scheduled,
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("metrics: register: %w", err)
		}
	}

	return nil
}
