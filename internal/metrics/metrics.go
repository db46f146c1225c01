// Package metrics holds the Prometheus collectors for the till.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "pos"

// POSMetrics records checkout and shift activity plus HTTP latency.
// A nil *POSMetrics is valid and records nothing.
type POSMetrics struct {
	salesRecorded    *prometheus.CounterVec
	salesAmount      *prometheus.CounterVec
	checkoutRejected *prometheus.CounterVec
	shiftsOpened     prometheus.Counter
	shiftsClosed     prometheus.Counter
	requestDuration  *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil registerer yields a no-op value.
func New(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	m := &POSMetrics{
		salesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Completed sales by payment method.",
		}, []string{"payment_method"}),
		salesAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_amount_total",
			Help:      "Sum of completed sale totals by payment method.",
		}, []string{"payment_method"}),
		checkoutRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_rejected_total",
			Help:      "Checkout attempts refused before anything was recorded.",
		}, []string{"reason"}),
		shiftsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shifts_opened_total",
			Help:      "Shifts opened.",
		}),
		shiftsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shifts_closed_total",
			Help:      "Shifts closed.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(
		m.salesRecorded,
		m.salesAmount,
		m.checkoutRejected,
		m.shiftsOpened,
		m.shiftsClosed,
		m.requestDuration,
	)
	return m
}

func (m *POSMetrics) SaleRecorded(paymentMethod string, total decimal.Decimal) {
	if m == nil || m.salesRecorded == nil {
		return
	}
	label := normalizeLabel(paymentMethod)
	m.salesRecorded.WithLabelValues(label).Inc()
	// counters cannot go down; discounted sales below zero are counted but not summed
	if amount, _ := total.Float64(); amount > 0 {
		m.salesAmount.WithLabelValues(label).Add(amount)
	}
}

func (m *POSMetrics) CheckoutRejected(reason string) {
	if m == nil || m.checkoutRejected == nil {
		return
	}
	m.checkoutRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *POSMetrics) ShiftOpened() {
	if m == nil || m.shiftsOpened == nil {
		return
	}
	m.shiftsOpened.Inc()
}

func (m *POSMetrics) ShiftClosed() {
	if m == nil || m.shiftsClosed == nil {
		return
	}
	m.shiftsClosed.Inc()
}

func (m *POSMetrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, normalizeLabel(path), strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
