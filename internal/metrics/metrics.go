// Package metrics exposes Prometheus counters for week processing and
// notification delivery.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skinsbot"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	weeksProcessed     prometheus.Counter
	processingFailures *prometheus.CounterVec
	processingDuration prometheus.Histogram
	lastProcessedWeek  prometheus.Gauge
	notifications      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		weeksProcessed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weeks_processed_total",
			Help:      "Weeks processed and appended to the results store",
		}),
		processingFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processing_failures_total",
			Help:      "Week processing runs that aborted, by stage",
		}, []string{"stage"}),
		processingDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_duration_seconds",
			Help:      "Time spent processing one week",
			Buckets:   prometheus.DefBuckets,
		}),
		lastProcessedWeek: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_processed_week",
			Help:      "Most recent week number processed",
		}),
		notifications: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel and outcome",
		}, []string{"channel", "outcome"}),
	}
}

func (m *Metrics) WeekProcessed(week int, took time.Duration) {
	if m == nil {
		return
	}
	m.weeksProcessed.Inc()
	m.lastProcessedWeek.Set(float64(week))
	m.processingDuration.Observe(took.Seconds())
}

func (m *Metrics) ProcessingFailed(stage string) {
	if m == nil {
		return
	}
	m.processingFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) NotificationDelivered(channel string, ok bool) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
