// Package metrics exposes Prometheus counters for the access flow.
//
// Every method is safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scrapegate"

// Ban sources.
const (
	BanSourceAuto  = "auto"
	BanSourceAdmin = "admin"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	authOutcomes *prometheus.CounterVec
	activities   *prometheus.CounterVec
	bans         *prometheus.CounterVec
	degraded     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	purged       prometheus.Counter
}

// New registers the access-flow collectors together with the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_outcomes_total",
			Help:      "Authentication attempts by outcome and denial reason.",
		}, []string{"outcome", "reason"}),
		activities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_total",
			Help:      "Logged activities by result and resulting outcome.",
		}, []string{"result", "outcome"}),
		bans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bans_total",
			Help:      "Executed bans by source.",
		}, []string{"source"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_total",
			Help:      "Operations answered by the fail policy because the store was unavailable.",
		}, []string{"operation", "policy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of access-flow operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_purged_total",
			Help:      "Expired sessions removed by the purge job.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.authOutcomes,
		m.activities,
		m.bans,
		m.degraded,
		m.duration,
		m.purged,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) AuthOutcome(outcome, reason string) {
	if m == nil {
		return
	}
	m.authOutcomes.WithLabelValues(outcome, reason).Inc()
}

func (m *Metrics) Activity(result, outcome string) {
	if m == nil {
		return
	}
	m.activities.WithLabelValues(result, outcome).Inc()
}

func (m *Metrics) Ban(source string) {
	if m == nil {
		return
	}
	m.bans.WithLabelValues(source).Inc()
}

func (m *Metrics) Degraded(operation, policy string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(operation, policy).Inc()
}

func (m *Metrics) SessionsPurged(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.purged.Add(float64(n))
}

// ObserveSince records the time elapsed since start for operation.
func (m *Metrics) ObserveSince(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
