package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Read-model cache
	AppointmentCacheHits   prometheus.Counter
	AppointmentCacheMisses prometheus.Counter

	// Join layer
	JoinLatency *prometheus.HistogramVec

	// Session lifecycle
	SessionEvents *prometheus.CounterVec

	// Notifications
	EmailsSent   prometheus.Counter
	EmailsFailed prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		AppointmentCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "appointment_cache_hits_total",
			Help:      "Total number of enriched appointment list cache hits",
		}),
		AppointmentCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "appointment_cache_misses_total",
			Help:      "Total number of enriched appointment list cache misses",
		}),
		JoinLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "join_duration_seconds",
			Help:      "Time spent building enriched read models",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"entity"}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "session_events_total",
			Help:      "Total number of session lifecycle events processed",
		}, []string{"type"}),
		EmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "emails_sent_total",
			Help:      "Total number of notification emails sent",
		}),
		EmailsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "emails_failed_total",
			Help:      "Total number of notification emails that failed to send",
		}),
	}
}

// The observer helpers below are nil-safe so services can run without
// metrics wired (tests, tools).

func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.AppointmentCacheHits.Inc()
}

func (m *Metrics) ObserveCacheMiss() {
	if m == nil {
		return
	}
	m.AppointmentCacheMisses.Inc()
}

func (m *Metrics) ObserveJoin(entity string, seconds float64) {
	if m == nil {
		return
	}
	m.JoinLatency.WithLabelValues(entity).Observe(seconds)
}

func (m *Metrics) ObserveSessionEvent(eventType string) {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues(eventType).Inc()
}

func (m *Metrics) ObserveEmail(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.EmailsFailed.Inc()
		return
	}
	m.EmailsSent.Inc()
}
