package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector owns a private registry with the assistant and chat service
// metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	chatRequests    *prometheus.CounterVec
	chatLatency     prometheus.Histogram
	ordersConfirmed prometheus.Counter
	orderValue      prometheus.Histogram
	catalogItems    prometheus.Gauge
	catalogRejected prometheus.Gauge
	recommendations *prometheus.CounterVec
	recommendTime   *prometheus.HistogramVec
}

// New creates a collector with Go runtime and process metrics registered
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		chatRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_chat_requests_total",
				Help: "Chat messages sent to the recommendation service",
			},
			[]string{"outcome"},
		),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orderbot_chat_request_duration_seconds",
			Help:    "Round trip time of chat requests",
			Buckets: prometheus.DefBuckets,
		}),
		ordersConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_orders_confirmed_total",
			Help: "Orders confirmed by users",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orderbot_order_value_rupees",
			Help:    "Total value of confirmed orders",
			Buckets: prometheus.ExponentialBuckets(50, 2, 8),
		}),
		catalogItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbot_catalog_items",
			Help: "Menu items loaded into the catalog",
		}),
		catalogRejected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbot_catalog_rejected_records",
			Help: "Catalog records rejected at ingestion",
		}),
		recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_recommendations_total",
				Help: "Chat requests answered by the recommendation service",
			},
			[]string{"engine", "outcome"},
		),
		recommendTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderbot_recommendation_duration_seconds",
				Help:    "Time spent producing a recommendation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"engine"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.chatRequests,
		c.chatLatency,
		c.ordersConfirmed,
		c.orderValue,
		c.catalogItems,
		c.catalogRejected,
		c.recommendations,
		c.recommendTime,
	)
	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveChat records one chat round trip
func (c *Collector) ObserveChat(ok bool, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.chatRequests.WithLabelValues(outcome(ok)).Inc()
	c.chatLatency.Observe(elapsed.Seconds())
}

// ObserveOrder records a confirmed order
func (c *Collector) ObserveOrder(total decimal.Decimal) {
	if c == nil {
		return
	}
	c.ordersConfirmed.Inc()
	c.orderValue.Observe(total.InexactFloat64())
}

// SetCatalog records the result of the startup load
func (c *Collector) SetCatalog(items, rejected int) {
	if c == nil {
		return
	}
	c.catalogItems.Set(float64(items))
	c.catalogRejected.Set(float64(rejected))
}

// ObserveRecommendation records one request served by the chat service
func (c *Collector) ObserveRecommendation(engine string, ok bool, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.recommendations.WithLabelValues(engine, outcome(ok)).Inc()
	c.recommendTime.WithLabelValues(engine).Observe(elapsed.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
