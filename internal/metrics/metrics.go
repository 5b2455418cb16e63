package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Collector groups the service's prometheus collectors. A nil *Collector is valid
// and records nothing.
type Collector struct {
	OrdersPlaced     prometheus.Counter
	OrdersRejected   *prometheus.CounterVec
	OrderRevenue     prometheus.Counter
	StockAdjustments prometheus.Counter
	LowStockAlerts   prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of orders placed",
		}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Total number of rejected order requests by reason",
		}, []string{"reason"}),
		OrderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_revenue_total",
			Help: "Sum of placed order totals",
		}),
		StockAdjustments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_adjustments_total",
			Help: "Total number of manual stock adjustments",
		}),
		LowStockAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "low_stock_alerts_total",
			Help: "How many writes left a product below its minimum stock",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP handlers",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.OrdersPlaced,
		c.OrdersRejected,
		c.OrderRevenue,
		c.StockAdjustments,
		c.LowStockAlerts,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

func (c *Collector) OrderPlaced(total decimal.Decimal) {
	if c == nil {
		return
	}
	c.OrdersPlaced.Inc()
	c.OrderRevenue.Add(total.InexactFloat64())
}

func (c *Collector) OrderRejected(reason string) {
	if c == nil {
		return
	}
	c.OrdersRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) StockAdjusted() {
	if c == nil {
		return
	}
	c.StockAdjustments.Inc()
}

func (c *Collector) LowStock() {
	if c == nil {
		return
	}
	c.LowStockAlerts.Inc()
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
