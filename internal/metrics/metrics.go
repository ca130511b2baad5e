// Package metrics instruments the matching core with Prometheus, in the
// register of VictorVVedtion-perp-dex's metrics/prometheus.go
// (MatchingLatency, OrderbookDepth) and
// DimaJoyti-ai-agentic-crypto-browser's pkg/observability — scoped down
// to what this core actually produces (see DESIGN.md).
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lobcore/internal/common"
)

// Collector holds every metric the core emits, registered on its own
// private registry rather than the global default so multiple engines
// in one process (e.g. under test) don't collide.
type Collector struct {
	registry *prometheus.Registry

	EventsTotal      *prometheus.CounterVec
	EventErrorsTotal *prometheus.CounterVec
	MatchingLatency  *prometheus.HistogramVec
	ExecutedQuantity *prometheus.CounterVec
	OrderbookDepth   *prometheus.GaugeVec
}

// New builds and registers a fresh Collector.
func New() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lobcore",
			Name:      "events_total",
			Help:      "Order events processed, by symbol and event kind.",
		}, []string{"symbol", "event"}),
		EventErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lobcore",
			Name:      "event_errors_total",
			Help:      "Order events that returned a typed error, by symbol, event kind, and error kind.",
		}, []string{"symbol", "event", "kind"}),
		MatchingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lobcore",
			Name:      "matching_latency_seconds",
			Help:      "Latency of a single processEvent call.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"symbol", "event"}),
		ExecutedQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lobcore",
			Name:      "executed_quantity_total",
			Help:      "Total quantity executed, by symbol.",
		}, []string{"symbol"}),
		OrderbookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lobcore",
			Name:      "orderbook_depth",
			Help:      "Resident price levels, by symbol and side.",
		}, []string{"symbol", "side"}),
	}
	registry.MustRegister(
		c.EventsTotal, c.EventErrorsTotal, c.MatchingLatency, c.ExecutedQuantity, c.OrderbookDepth,
	)
	return c
}

// Handler serves c's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var defaultCollector = New()

// Default returns the process-wide Collector used by ObserveEvent and
// ObserveDepth when no explicit collector is threaded through.
func Default() *Collector { return defaultCollector }

// SetDefault replaces the process-wide Collector — used by tests that
// want an isolated registry.
func SetDefault(c *Collector) { defaultCollector = c }

// ObserveEvent records one processEvent call against the default
// collector.
func ObserveEvent(symbol, event string, elapsed time.Duration, result common.MatchResult, err error) {
	Default().ObserveEvent(symbol, event, elapsed, result, err)
}

// ObserveEvent records one processEvent call against c.
func (c *Collector) ObserveEvent(symbol, event string, elapsed time.Duration, result common.MatchResult, err error) {
	c.EventsTotal.WithLabelValues(symbol, event).Inc()
	c.MatchingLatency.WithLabelValues(symbol, event).Observe(elapsed.Seconds())

	if err != nil {
		kind := "unknown"
		var engErr *common.EngineError
		if errors.As(err, &engErr) {
			kind = engErr.Kind.String()
		}
		c.EventErrorsTotal.WithLabelValues(symbol, event, kind).Inc()
		return
	}
	if result.ExecutedQty > 0 {
		c.ExecutedQuantity.WithLabelValues(symbol).Add(float64(result.ExecutedQty))
	}
}

// ObserveDepth records the current bid/ask level counts for symbol
// against the default collector.
func ObserveDepth(symbol string, bidLevels, askLevels int) {
	Default().ObserveDepth(symbol, bidLevels, askLevels)
}

// ObserveDepth records the current bid/ask level counts for symbol
// against c.
func (c *Collector) ObserveDepth(symbol string, bidLevels, askLevels int) {
	c.OrderbookDepth.WithLabelValues(symbol, "bid").Set(float64(bidLevels))
	c.OrderbookDepth.WithLabelValues(symbol, "ask").Set(float64(askLevels))
}
