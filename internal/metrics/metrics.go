// ABOUTME: Prometheus collectors for HTTP latency, toggles and habit creation
// ABOUTME: Registered on a private registry; nil *Metrics records nothing

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

const namespace = "habitd"

// Toggle results used as the "result" label of habitd_toggles_total.
const (
	ToggleCompleted   = "completed"
	ToggleUncompleted = "uncompleted"
	ToggleFailed      = "failed"
)

// Metrics holds the habitd collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestDuration *prometheus.HistogramVec
	toggles             *prometheus.CounterVec
	toggleConflicts     prometheus.Counter
	habitsCreated       prometheus.Counter
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "route", "status"},
		),

		toggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "toggles_total",
				Help:      "Total number of completion toggles by result",
			},
			[]string{"result"},
		),

		toggleConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toggle_conflicts_total",
			Help:      "Toggle attempts retried after a concurrent write",
		}),

		habitsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "habits_created_total",
			Help:      "Total number of habits created",
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry. A nil Metrics serves 404.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records the duration of one HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordToggle counts a finished toggle with one of the Toggle* results.
func (m *Metrics) RecordToggle(result string) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(result).Inc()
}

// RecordToggleConflict counts a toggle attempt that lost a race and was retried.
func (m *Metrics) RecordToggleConflict() {
	if m == nil {
		return
	}
	m.toggleConflicts.Inc()
}

// RecordHabitCreated counts a created habit.
func (m *Metrics) RecordHabitCreated() {
	if m == nil {
		return
	}
	m.habitsCreated.Inc()
}
