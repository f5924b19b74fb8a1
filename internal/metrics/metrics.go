package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPDuration    *prometheus.HistogramVec
	EmailsSent      prometheus.Counter
	EmailsFailed    prometheus.Counter
	EventsPublished prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quicktask_http_request_duration_seconds",
			Help:    "HTTP request duration by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
		EmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quicktask_emails_sent_total",
			Help: "Notification emails delivered to the mail transport.",
		}),
		EmailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quicktask_emails_failed_total",
			Help: "Notification email sends that returned an error.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quicktask_change_events_published_total",
			Help: "Change-feed events published to redis.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPDuration,
		m.EmailsSent,
		m.EmailsFailed,
		m.EventsPublished,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
