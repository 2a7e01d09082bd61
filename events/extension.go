package events

import (
	"context"
	"log/slog"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/plugin"
	"github.com/partsdesk/salesledger/types"
)

// Routing keys for published events.
const (
	KeyOrderCreated      = "order.created"
	KeyOrderPaid         = "order.paid"
	KeyPaymentCreated    = "payment.created"
	KeyVisibilityChanged = "record.visibility_changed"
	KeyRecordDeleted     = "record.deleted"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnOrderCreated      = (*Extension)(nil)
	_ plugin.OnPaymentCreated    = (*Extension)(nil)
	_ plugin.OnOrderPaid         = (*Extension)(nil)
	_ plugin.OnVisibilityChanged = (*Extension)(nil)
	_ plugin.OnRecordDeleted     = (*Extension)(nil)
	_ plugin.OnShutdown          = (*Extension)(nil)
)

// Extension publishes ledger lifecycle events through a Publisher.
type Extension struct {
	publisher *Publisher
	logger    *slog.Logger
}

// NewExtension wraps a Publisher as an engine plugin.
func NewExtension(p *Publisher, logger *slog.Logger) *Extension {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extension{publisher: p, logger: logger}
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "amqp-events" }

// OnOrderCreated implements plugin.OnOrderCreated.
func (e *Extension) OnOrderCreated(_ context.Context, lines []*order.Line) error {
	orderID := ""
	customer := ""
	if len(lines) > 0 {
		orderID = lines[0].OrderID
		customer = lines[0].Customer
	}
	return e.publisher.Publish(KeyOrderCreated, map[string]any{
		"order_id":   orderID,
		"customer":   customer,
		"line_count": len(lines),
	})
}

// OnPaymentCreated implements plugin.OnPaymentCreated.
func (e *Extension) OnPaymentCreated(_ context.Context, p *payment.Payment) error {
	return e.publisher.Publish(KeyPaymentCreated, map[string]any{
		"payment_id": p.PaymentID,
		"customer":   p.Customer,
		"order_ref":  p.OrderRef,
		"amount":     p.Amount,
	})
}

// OnOrderPaid implements plugin.OnOrderPaid.
func (e *Extension) OnOrderPaid(_ context.Context, orderID string) error {
	return e.publisher.Publish(KeyOrderPaid, map[string]any{
		"order_id": orderID,
	})
}

// OnVisibilityChanged implements plugin.OnVisibilityChanged.
func (e *Extension) OnVisibilityChanged(_ context.Context, kind types.Kind, id string, v types.Visibility) error {
	return e.publisher.Publish(KeyVisibilityChanged, map[string]any{
		"kind":       string(kind),
		"id":         id,
		"visibility": string(v),
	})
}

// OnRecordDeleted implements plugin.OnRecordDeleted.
func (e *Extension) OnRecordDeleted(_ context.Context, kind types.Kind, id string) error {
	return e.publisher.Publish(KeyRecordDeleted, map[string]any{
		"kind": string(kind),
		"id":   id,
	})
}

// OnShutdown implements plugin.OnShutdown.
func (e *Extension) OnShutdown(context.Context) error {
	return e.publisher.Close()
}
