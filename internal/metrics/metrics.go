// Package metrics exposes simulation counters and resource gauges to Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/napolitain/nation-builder/internal/models"
)

const namespace = "nation"

// Metrics holds the collectors on a private registry
type Metrics struct {
	Registry     *prometheus.Registry
	Ticks        prometheus.Counter
	Actions      *prometheus.CounterVec
	Saves        *prometheus.CounterVec
	Achievements prometheus.Counter
	Resources    *prometheus.GaugeVec
	Elections    prometheus.Gauge
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation quanta run.",
		}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Player actions by name and outcome.",
		}, []string{"action", "outcome"}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Save attempts by result.",
		}, []string{"result"}),
		Achievements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked.",
		}),
		Resources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resource",
			Help:      "Current resource stock.",
		}, []string{"resource"}),
		Elections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "election_active",
			Help:      "1 while an election is running.",
		}),
	}
	m.Registry.MustRegister(
		m.Ticks, m.Actions, m.Saves, m.Achievements, m.Resources, m.Elections,
		collectors.NewGoCollector(),
	)
	return m
}

// AddTicks counts simulation quanta
func (m *Metrics) AddTicks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Ticks.Add(float64(n))
}

// ObserveAction counts one resolver call
func (m *Metrics) ObserveAction(action, outcome string, unlocked int) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(action, outcome).Inc()
	m.Achievements.Add(float64(unlocked))
}

// ObserveSave counts one save attempt
func (m *Metrics) ObserveSave(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Saves.WithLabelValues(result).Inc()
}

// ObserveState updates the gauges from a state
func (m *Metrics) ObserveState(s *models.GameState) {
	if m == nil {
		return
	}
	s.Resources.Each(func(rt models.ResourceType, v float64) {
		m.Resources.WithLabelValues(string(rt)).Set(v)
	})
	if s.Elections.Active {
		m.Elections.Set(1)
	} else {
		m.Elections.Set(0)
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
