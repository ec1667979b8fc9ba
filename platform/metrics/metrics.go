// Package metrics provides Prometheus metrics for the CRM API and worker.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salescrm"

// Manager owns a private registry and every collector registered on it.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	automationOutcomes *prometheus.CounterVec
	stageTransitions   *prometheus.CounterVec
	activitiesLogged   *prometheus.CounterVec
	leadScores         prometheus.Histogram
	leadsRescored      *prometheus.CounterVec
}

// NewManager creates a Manager with Go runtime and process collectors.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Manager{
		registry: reg,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		automationOutcomes: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "automation",
			Name:      "outcomes_total",
			Help:      "Automation rule matches by rule name.",
		}, []string{"rule"}),
		stageTransitions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "stage_transitions_total",
			Help:      "Lead pipeline stage changes caused by automation.",
		}, []string{"from", "to"}),
		activitiesLogged: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "activities_logged_total",
			Help:      "Activities appended by type.",
		}, []string{"type"}),
		leadScores: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "lead_score",
			Help:      "Distribution of computed lead scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		leadsRescored: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "leads_rescored_total",
			Help:      "Leads rescored, split by single or batch mode.",
		}, []string{"mode"}),
	}
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request.
func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordAutomation counts a matched automation rule.
func (m *Manager) RecordAutomation(rule string) {
	if m == nil {
		return
	}
	m.automationOutcomes.WithLabelValues(rule).Inc()
}

// RecordStageTransition counts a stage change. Unchanged stages are ignored.
func (m *Manager) RecordStageTransition(from, to string) {
	if m == nil || from == to {
		return
	}
	m.stageTransitions.WithLabelValues(from, to).Inc()
}

// RecordActivity counts an appended activity.
func (m *Manager) RecordActivity(activityType string) {
	if m == nil {
		return
	}
	m.activitiesLogged.WithLabelValues(activityType).Inc()
}

// ObserveScore records a computed score.
func (m *Manager) ObserveScore(score int, batch bool) {
	if m == nil {
		return
	}
	m.leadScores.Observe(float64(score))
	mode := "single"
	if batch {
		mode = "batch"
	}
	m.leadsRescored.WithLabelValues(mode).Inc()
}
