// Package observability provides a metrics extension that records ledger
// lifecycle event counts as Prometheus metrics.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/plugin"
	"github.com/partsdesk/salesledger/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnOrderCreated      = (*MetricsExtension)(nil)
	_ plugin.OnPaymentCreated    = (*MetricsExtension)(nil)
	_ plugin.OnOrderPaid         = (*MetricsExtension)(nil)
	_ plugin.OnVisibilityChanged = (*MetricsExtension)(nil)
	_ plugin.OnRecordDeleted     = (*MetricsExtension)(nil)
)

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an engine plugin to automatically track ledger activity.
type MetricsExtension struct {
	// Order metrics
	OrdersCreated     prometheus.Counter
	OrderLinesCreated prometheus.Counter
	OrdersPaid        prometheus.Counter
	OrderTotal        prometheus.Histogram

	// Payment metrics
	PaymentsCreated prometheus.Counter
	PaymentAmount   prometheus.Histogram

	// Lifecycle metrics
	RecordsHidden   *prometheus.CounterVec
	RecordsRestored *prometheus.CounterVec
	RecordsDeleted  *prometheus.CounterVec
}

// NewMetricsExtension creates a MetricsExtension and registers its metrics
// with the provided registerer. Pass prometheus.DefaultRegisterer for the
// global registry.
func NewMetricsExtension(reg prometheus.Registerer) *MetricsExtension {
	m := &MetricsExtension{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesledger_orders_created_total",
			Help: "Number of orders created.",
		}),
		OrderLinesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesledger_order_lines_created_total",
			Help: "Number of order lines created.",
		}),
		OrdersPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesledger_orders_paid_total",
			Help: "Number of orders marked as paid.",
		}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "salesledger_order_total_major_units",
			Help:    "Order totals in major currency units.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		PaymentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesledger_payments_created_total",
			Help: "Number of payments created.",
		}),
		PaymentAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "salesledger_payment_amount_major_units",
			Help:    "Payment amounts in major currency units.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		RecordsHidden: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesledger_records_hidden_total",
			Help: "Number of records soft-deleted, by kind.",
		}, []string{"kind"}),
		RecordsRestored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesledger_records_restored_total",
			Help: "Number of hidden records restored, by kind.",
		}, []string{"kind"}),
		RecordsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesledger_records_deleted_total",
			Help: "Number of records hard-deleted, by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.OrdersCreated,
		m.OrderLinesCreated,
		m.OrdersPaid,
		m.OrderTotal,
		m.PaymentsCreated,
		m.PaymentAmount,
		m.RecordsHidden,
		m.RecordsRestored,
		m.RecordsDeleted,
	)
	return m
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnOrderCreated implements plugin.OnOrderCreated.
func (m *MetricsExtension) OnOrderCreated(_ context.Context, lines []*order.Line) error {
	m.OrdersCreated.Inc()
	m.OrderLinesCreated.Add(float64(len(lines)))
	var total int64
	for _, ln := range lines {
		total += ln.LineTotal.Amount
	}
	m.OrderTotal.Observe(float64(total) / 100)
	return nil
}

// OnPaymentCreated implements plugin.OnPaymentCreated.
func (m *MetricsExtension) OnPaymentCreated(_ context.Context, p *payment.Payment) error {
	m.PaymentsCreated.Inc()
	m.PaymentAmount.Observe(float64(p.Amount.Amount) / 100)
	return nil
}

// OnOrderPaid implements plugin.OnOrderPaid.
func (m *MetricsExtension) OnOrderPaid(_ context.Context, _ string) error {
	m.OrdersPaid.Inc()
	return nil
}

// OnVisibilityChanged implements plugin.OnVisibilityChanged.
func (m *MetricsExtension) OnVisibilityChanged(_ context.Context, kind types.Kind, _ string, v types.Visibility) error {
	if v == types.Hidden {
		m.RecordsHidden.WithLabelValues(string(kind)).Inc()
	} else {
		m.RecordsRestored.WithLabelValues(string(kind)).Inc()
	}
	return nil
}

// OnRecordDeleted implements plugin.OnRecordDeleted.
func (m *MetricsExtension) OnRecordDeleted(_ context.Context, kind types.Kind, _ string) error {
	m.RecordsDeleted.WithLabelValues(string(kind)).Inc()
	return nil
}
