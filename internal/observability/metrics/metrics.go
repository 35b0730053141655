package metrics

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "console_"

	resultSuccess = "success"
	resultError   = "error"
	resultSkipped = "skipped"
)

// Result labels used by Observe helpers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultSkipped = resultSkipped
)

var (
	registerOnce sync.Once

	orderCreateTotal   *prometheus.CounterVec
	orderCreateLatency *prometheus.HistogramVec

	settleTotal   *prometheus.CounterVec
	settleLatency *prometheus.HistogramVec

	settleBulkSize prometheus.Histogram

	settleDegradedTotal prometheus.Counter

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	ordersPending prometheus.Gauge
)

// Init registers observability metrics.
func Init(logger *log.Logger) {
	registerOnce.Do(func() {
		orderCreateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "order_create_total",
				Help: "Total order line creations by result",
			},
			[]string{"result"},
		)
		orderCreateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "order_create_latency_seconds",
				Help:    "Order line creation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		settleTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settle_total",
				Help: "Total settlement operations by result",
			},
			[]string{"result"},
		)
		settleLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settle_latency_seconds",
				Help:    "Settlement latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		settleBulkSize = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settle_bulk_size",
				Help:    "Number of ids per bulk settlement request",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
			},
		)

		settleDegradedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "settle_degraded_total",
				Help: "Total settlements completed without an active rate config",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total ledger export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Ledger export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		ordersPending = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "orders_pending",
				Help: "Order lines currently awaiting settlement",
			},
		)

		prometheus.MustRegister(
			orderCreateTotal,
			orderCreateLatency,
			settleTotal,
			settleLatency,
			settleBulkSize,
			settleDegradedTotal,
			exportTotal,
			exportLatency,
			ordersPending,
		)

		if logger != nil {
			logger.Printf("metrics registered with prefix %q", metricPrefix)
		}
	})
}

// ObserveOrderCreate records order creation duration and result.
func ObserveOrderCreate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if orderCreateTotal != nil {
		orderCreateTotal.WithLabelValues(result).Inc()
	}
	if orderCreateLatency != nil {
		orderCreateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSettle records settlement duration and result.
func ObserveSettle(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if settleTotal != nil {
		settleTotal.WithLabelValues(result).Inc()
	}
	if settleLatency != nil {
		settleLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSettleBulkSize records the size of a bulk settlement request.
func ObserveSettleBulkSize(size int) {
	if size < 0 {
		size = 0
	}
	if settleBulkSize != nil {
		settleBulkSize.Observe(float64(size))
	}
}

// IncSettleDegraded counts a settlement that fell back to a zero commission.
func IncSettleDegraded() {
	if settleDegradedTotal != nil {
		settleDegradedTotal.Inc()
	}
}

// ObserveExport records export duration by format and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// SetPendingOrders sets the pending order gauge.
func SetPendingOrders(count int) {
	if count < 0 {
		count = 0
	}
	if ordersPending != nil {
		ordersPending.Set(float64(count))
	}
}
