// Package store defines the unified storage interface for the sales ledger.
package store

import (
	"context"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/types"
)

// Store is the unified storage interface covering both ledger tables.
// Instead of embedding the per-entity sub-interfaces, all methods are
// declared explicitly to avoid naming conflicts.
//
// Every method is atomic from the caller's perspective: a read that starts
// after a write returns observes that write in full or not at all, never a
// partial row set. Backends must treat a table that does not yet exist as
// empty and create it on first write.
type Store interface {
	// Order methods
	AppendOrderLines(ctx context.Context, lines []*order.Line) error
	ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Line, error)
	OrderIDs(ctx context.Context) ([]string, error)
	SetOrderVisibility(ctx context.Context, orderID string, v types.Visibility) (bool, error)
	MarkOrderPaid(ctx context.Context, orderID string) (bool, error)
	DeleteOrder(ctx context.Context, orderID string) (bool, error)

	// Payment methods
	AppendPayment(ctx context.Context, p *payment.Payment) error
	ListPayments(ctx context.Context, opts payment.ListOpts) ([]*payment.Payment, error)
	PaymentIDs(ctx context.Context) ([]string, error)
	SetPaymentVisibility(ctx context.Context, paymentID string, v types.Visibility) (bool, error)
	DeletePayment(ctx context.Context, paymentID string) (bool, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Orders adapts a Store to the order.Store sub-interface.
func Orders(s Store) order.Store { return ordersView{s} }

// Payments adapts a Store to the payment.Store sub-interface.
func Payments(s Store) payment.Store { return paymentsView{s} }

type ordersView struct{ s Store }

func (v ordersView) AppendLines(ctx context.Context, lines []*order.Line) error {
	return v.s.AppendOrderLines(ctx, lines)
}

func (v ordersView) List(ctx context.Context, opts order.ListOpts) ([]*order.Line, error) {
	return v.s.ListOrders(ctx, opts)
}

func (v ordersView) IDs(ctx context.Context) ([]string, error) {
	return v.s.OrderIDs(ctx)
}

func (v ordersView) SetVisibility(ctx context.Context, orderID string, vis types.Visibility) (bool, error) {
	return v.s.SetOrderVisibility(ctx, orderID, vis)
}

func (v ordersView) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	return v.s.MarkOrderPaid(ctx, orderID)
}

func (v ordersView) Delete(ctx context.Context, orderID string) (bool, error) {
	return v.s.DeleteOrder(ctx, orderID)
}

type paymentsView struct{ s Store }

func (v paymentsView) Append(ctx context.Context, p *payment.Payment) error {
	return v.s.AppendPayment(ctx, p)
}

func (v paymentsView) List(ctx context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	return v.s.ListPayments(ctx, opts)
}

func (v paymentsView) IDs(ctx context.Context) ([]string, error) {
	return v.s.PaymentIDs(ctx)
}

func (v paymentsView) SetVisibility(ctx context.Context, paymentID string, vis types.Visibility) (bool, error) {
	return v.s.SetPaymentVisibility(ctx, paymentID, vis)
}

func (v paymentsView) Delete(ctx context.Context, paymentID string) (bool, error) {
	return v.s.DeletePayment(ctx, paymentID)
}
