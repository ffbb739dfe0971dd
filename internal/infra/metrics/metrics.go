package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hotelbooking/internal/app/middleware"
	domainpricing "hotelbooking/internal/domain/pricing"
)

// Metrics owns the service registry and its collectors.
type Metrics struct {
	registry         *prometheus.Registry
	httpDuration     *prometheus.HistogramVec
	dispatchDuration *prometheus.HistogramVec
	dispatchTotal    *prometheus.CounterVec
	pricingFallbacks *prometheus.CounterVec
	outboxRelayed    prometheus.Counter
}

func New(service string) *Metrics {
	labels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by route and status.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "bus_dispatch_duration_seconds",
			Help:        "Command and query handling latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"kind", "key"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bus_dispatch_total",
			Help:        "Dispatched commands and queries by outcome.",
			ConstLabels: labels,
		}, []string{"kind", "key", "outcome"}),
		pricingFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pricing_fallback_total",
			Help:        "Quotes that fell back to base rate times nights.",
			ConstLabels: labels,
		}, []string{"branch"}),
		outboxRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "outbox_relayed_total",
			Help:        "Outbox events handed to the broker.",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpDuration,
		m.dispatchDuration,
		m.dispatchTotal,
		m.pricingFallbacks,
		m.outboxRelayed,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gin records request latency keyed by the matched route template.
func (m *Metrics) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Observe(kind, key string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.dispatchDuration.WithLabelValues(kind, key).Observe(elapsed.Seconds())
	m.dispatchTotal.WithLabelValues(kind, key, outcome).Inc()
}

// PricingFallback matches the calculator's OnFallback hook.
func (m *Metrics) PricingFallback(input domainpricing.Input, _ error) {
	branch := input.BranchID
	if branch == "" {
		branch = "unknown"
	}
	m.pricingFallbacks.WithLabelValues(branch).Inc()
}

func (m *Metrics) OutboxRelayed(n int) {
	if n > 0 {
		m.outboxRelayed.Add(float64(n))
	}
}

var _ middleware.Observer = (*Metrics)(nil)
