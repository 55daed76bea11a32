// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	RequestDuration  *prometheus.HistogramVec
	PickupsSubmitted prometheus.Counter
	PickupLines      prometheus.Counter
	PickupsRejected  *prometheus.CounterVec
	UnitsWithdrawn   *prometheus.CounterVec
	SignInAttempts   *prometheus.CounterVec
}

// New registers every collector on a fresh registry, so tests can build
// as many instances as they like.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supply_tracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		PickupsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supply_tracker",
			Subsystem: "pickups",
			Name:      "submitted_total",
			Help:      "Pickup submissions committed.",
		}),
		PickupLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supply_tracker",
			Subsystem: "pickups",
			Name:      "lines_total",
			Help:      "Pickup line items committed.",
		}),
		PickupsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supply_tracker",
			Subsystem: "pickups",
			Name:      "rejected_total",
			Help:      "Pickup submissions rejected, by reason.",
		}, []string{"reason"}),
		UnitsWithdrawn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supply_tracker",
			Subsystem: "inventory",
			Name:      "units_withdrawn_total",
			Help:      "Units withdrawn through pickups, by item.",
		}, []string{"item"}),
		SignInAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supply_tracker",
			Subsystem: "auth",
			Name:      "sign_in_attempts_total",
			Help:      "Sign-in attempts by result.",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.PickupsSubmitted,
		m.PickupLines,
		m.PickupsRejected,
		m.UnitsWithdrawn,
		m.SignInAttempts,
	)
	return m
}

// Middleware records request latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
