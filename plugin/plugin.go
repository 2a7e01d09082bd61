// Package plugin provides an extensible hook system for the sales ledger.
// Plugins can observe lifecycle events to extend functionality — audit
// trails, metrics, event publication — without touching the write path.
package plugin

import (
	"context"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Record lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderCreated is called after an order's lines have been persisted.
type OnOrderCreated interface {
	Plugin
	OnOrderCreated(ctx context.Context, lines []*order.Line) error
}

// OnPaymentCreated is called after a payment has been persisted.
type OnPaymentCreated interface {
	Plugin
	OnPaymentCreated(ctx context.Context, p *payment.Payment) error
}

// OnOrderPaid is called when an order's status flips to paid.
type OnOrderPaid interface {
	Plugin
	OnOrderPaid(ctx context.Context, orderID string) error
}

// OnVisibilityChanged is called after a record is hidden or restored.
type OnVisibilityChanged interface {
	Plugin
	OnVisibilityChanged(ctx context.Context, kind types.Kind, id string, v types.Visibility) error
}

// OnRecordDeleted is called after a record is hard-deleted.
type OnRecordDeleted interface {
	Plugin
	OnRecordDeleted(ctx context.Context, kind types.Kind, id string) error
}
