// Package metrics exposes Prometheus collectors for payments, deposits and
// the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gigpay"

// Collector records ledger operations. It satisfies the MetricsCollector
// interfaces of the transfer and balance services.
type Collector struct {
	registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	volume            *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operation_duration_seconds",
				Help:      "Duration of ledger operations.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"operation"},
		),
		operationResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Total number of ledger operations by result.",
			},
			[]string{"operation", "result"},
		),
		volume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "volume_minor_units_total",
				Help:      "Amount moved by committed ledger entries, in minor units.",
			},
			[]string{"kind"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "path"},
		),
	}

	c.registry.MustRegister(
		c.operationDuration,
		c.operationResults,
		c.volume,
		c.httpRequests,
		c.httpDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) RecordOperationDuration(operation string, duration time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordOperationResult(operation, result string) {
	c.operationResults.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordTransactionVolume(kind string, amount int64) {
	if amount <= 0 {
		return
	}
	c.volume.WithLabelValues(kind).Add(float64(amount))
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route pattern.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := ctx.Route().Path
		method := ctx.Method()
		c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
