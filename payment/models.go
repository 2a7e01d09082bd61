// Package payment defines the payment records of the sales ledger.
package payment

import (
	"time"

	"github.com/partsdesk/salesledger/id"
	"github.com/partsdesk/salesledger/types"
)

// Payment is a monetary credit applied to a customer's balance. The order
// and product references are informational only — they are never checked
// for existence, so a payment can reference an order that was deleted.
type Payment struct {
	RowID      id.RowID         `json:"row_id"`
	Timestamp  time.Time        `json:"timestamp"`
	PaymentID  string           `json:"payment_id"` // "PAG001"
	Customer   string           `json:"customer"`
	OrderRef   string           `json:"order_ref,omitempty"`
	ProductRef string           `json:"product_ref,omitempty"`
	Amount     types.Money      `json:"amount"` // the Engine only writes positive amounts
	Comment    string           `json:"comment,omitempty"`
	Visibility types.Visibility `json:"visibility"`
}

// Total sums the amounts of a set of payments. Returns zero in the given
// currency for an empty set.
func Total(currency string, payments []*Payment) types.Money {
	total := types.Zero(currency)
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// ListOpts filters payment listings.
type ListOpts struct {
	Customer      string // exact match; empty matches all customers
	OrderRef      string // exact match; empty matches all
	IncludeHidden bool
	Limit         int
	Offset        int
}

// Matches reports whether the payment passes the filter, visibility included.
func (o ListOpts) Matches(p *Payment) bool {
	if o.Customer != "" && p.Customer != o.Customer {
		return false
	}
	if o.OrderRef != "" && p.OrderRef != o.OrderRef {
		return false
	}
	if !o.IncludeHidden && p.Visibility != types.Visible {
		return false
	}
	return true
}
