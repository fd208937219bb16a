package ebui

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "eb"

// Metrics holds the Prometheus metrics the dev server exports.
type Metrics struct {
	EventsGenerated prometheus.Counter
	EventsPublished prometheus.Counter
	PublishFailures prometheus.Counter
	EventsDelivered prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the server metrics on the given
// registerer. Each server owns its own registry so tests can run several
// servers in one process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_generated_total",
			Help:      "Total number of sample events generated",
		}),
		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_published_total",
			Help:      "Total number of events accepted by the local bus",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "publish_failures_total",
			Help:      "Total number of entries rejected by the local bus",
		}),
		EventsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_delivered_total",
			Help:      "Total number of rule deliveries recorded",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
	}
}
