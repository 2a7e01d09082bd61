// Package memory provides an in-process store, used by tests and by
// callers that keep the ledger ephemeral.
package memory

import (
	"context"
	"sync"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/store"
	"github.com/partsdesk/salesledger/types"
)

// Store keeps both tables as slices in insertion order, guarded by one
// RWMutex each so every call observes a consistent snapshot.
type Store struct {
	ordersMu sync.RWMutex
	orders   []order.Line

	paymentsMu sync.RWMutex
	payments   []payment.Payment
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// ──────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────

func (s *Store) AppendOrderLines(_ context.Context, lines []*order.Line) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	for _, ln := range lines {
		s.orders = append(s.orders, *ln)
	}
	return nil
}

func (s *Store) ListOrders(_ context.Context, opts order.ListOpts) ([]*order.Line, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	var result []*order.Line
	skipped := 0
	for i := range s.orders {
		ln := s.orders[i]
		if !opts.Matches(&ln) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		result = append(result, &ln)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) OrderIDs(_ context.Context) ([]string, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	ids := make([]string, 0, len(s.orders))
	for i := range s.orders {
		ids = append(ids, s.orders[i].OrderID)
	}
	return ids, nil
}

func (s *Store) SetOrderVisibility(_ context.Context, orderID string, v types.Visibility) (bool, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	matched := false
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders[i].Visibility = v
			matched = true
		}
	}
	return matched, nil
}

func (s *Store) MarkOrderPaid(_ context.Context, orderID string) (bool, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	matched := false
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders[i].Status = order.StatusPaid
			matched = true
		}
	}
	return matched, nil
}

func (s *Store) DeleteOrder(_ context.Context, orderID string) (bool, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	kept := s.orders[:0]
	matched := false
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			matched = true
			continue
		}
		kept = append(kept, s.orders[i])
	}
	s.orders = kept
	return matched, nil
}

// ──────────────────────────────────────────────────
// Payments
// ──────────────────────────────────────────────────

func (s *Store) AppendPayment(_ context.Context, p *payment.Payment) error {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	s.payments = append(s.payments, *p)
	return nil
}

func (s *Store) ListPayments(_ context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	s.paymentsMu.RLock()
	defer s.paymentsMu.RUnlock()

	var result []*payment.Payment
	skipped := 0
	for i := range s.payments {
		p := s.payments[i]
		if !opts.Matches(&p) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		result = append(result, &p)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) PaymentIDs(_ context.Context) ([]string, error) {
	s.paymentsMu.RLock()
	defer s.paymentsMu.RUnlock()

	ids := make([]string, 0, len(s.payments))
	for i := range s.payments {
		ids = append(ids, s.payments[i].PaymentID)
	}
	return ids, nil
}

func (s *Store) SetPaymentVisibility(_ context.Context, paymentID string, v types.Visibility) (bool, error) {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	matched := false
	for i := range s.payments {
		if s.payments[i].PaymentID == paymentID {
			s.payments[i].Visibility = v
			matched = true
		}
	}
	return matched, nil
}

func (s *Store) DeletePayment(_ context.Context, paymentID string) (bool, error) {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	kept := s.payments[:0]
	matched := false
	for i := range s.payments {
		if s.payments[i].PaymentID == paymentID {
			matched = true
			continue
		}
		kept = append(kept, s.payments[i])
	}
	s.payments = kept
	return matched, nil
}

// ──────────────────────────────────────────────────
// Core
// ──────────────────────────────────────────────────

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }
