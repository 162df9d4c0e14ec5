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

const namespace = "networkly"

// Metrics owns a private registry so tests can build as many instances as they need.
type Metrics struct {
	registry        *prometheus.Registry
	rateDecisions   *prometheus.CounterVec
	profileViews    prometheus.Counter
	eventsPublished *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Rate limiter decisions by action and result.",
		}, []string{"action", "result"}),
		profileViews: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_views_recorded_total",
			Help:      "Profile views counted after passing the view limiter.",
		}),
		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_published_total",
			Help:      "Activity events handed to the broker by name and result.",
		}, []string{"name", "result"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) ObserveRateDecision(action string, allowed bool) {
	result := "allowed"
	if !allowed {
		result = "limited"
	}
	m.rateDecisions.WithLabelValues(action, result).Inc()
}

func (m *Metrics) ObserveProfileView() {
	m.profileViews.Inc()
}

func (m *Metrics) ObserveEventPublished(name string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(name, result).Inc()
}

func (m *Metrics) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
