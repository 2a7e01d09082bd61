// Package order defines the order-line records of the sales ledger.
//
// An order is one or more lines sharing a single order number; every line
// references a product and carries its own quantity and totals. Lines are
// immutable after creation except for their status and visibility.
package order

import (
	"time"

	"github.com/partsdesk/salesledger/id"
	"github.com/partsdesk/salesledger/types"
)

// Status is the informational payment status of an order.
// It never feeds balance computation.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Line is a single order line. All lines of one order share OrderID,
// Timestamp and Customer.
type Line struct {
	RowID       id.RowID         `json:"row_id"`
	Timestamp   time.Time        `json:"timestamp"`
	OrderID     string           `json:"order_id"` // "PED001", shared across the order
	Customer    string           `json:"customer"`
	ProductCode string           `json:"product_code"`
	ProductName string           `json:"product_name"` // catalog name snapshotted at creation
	UnitPrice   types.Money      `json:"unit_price"`
	Quantity    int64            `json:"quantity"`
	LineTotal   types.Money      `json:"line_total"` // UnitPrice * Quantity
	Status      Status           `json:"status"`
	Comment     string           `json:"comment,omitempty"`
	Visibility  types.Visibility `json:"visibility"`
}

// Total sums the line totals of a set of lines. Returns zero in the given
// currency for an empty set.
func Total(currency string, lines []*Line) types.Money {
	total := types.Zero(currency)
	for _, ln := range lines {
		total = total.Add(ln.LineTotal)
	}
	return total
}

// ListOpts filters order listings.
type ListOpts struct {
	Customer      string // exact match; empty matches all customers
	OrderID       string // exact match; empty matches all orders
	Status        Status // empty matches any status
	IncludeHidden bool   // include soft-deleted lines
	Limit         int
	Offset        int
}

// Matches reports whether the line passes the filter, visibility included.
func (o ListOpts) Matches(ln *Line) bool {
	if o.Customer != "" && ln.Customer != o.Customer {
		return false
	}
	if o.OrderID != "" && ln.OrderID != o.OrderID {
		return false
	}
	if o.Status != "" && ln.Status != o.Status {
		return false
	}
	if !o.IncludeHidden && ln.Visibility != types.Visible {
		return false
	}
	return true
}
