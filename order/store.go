package order

import (
	"context"

	"github.com/partsdesk/salesledger/types"
)

// Store is the order-table contract a storage backend must satisfy.
type Store interface {
	// AppendLines persists every line or none; lines of one order are
	// never partially visible to readers.
	AppendLines(ctx context.Context, lines []*Line) error

	// List returns matching lines in insertion order.
	List(ctx context.Context, opts ListOpts) ([]*Line, error)

	// IDs returns every order number present, hidden lines included.
	IDs(ctx context.Context) ([]string, error)

	// SetVisibility flips the visibility of all lines of an order.
	// Returns false when no line matched.
	SetVisibility(ctx context.Context, orderID string, v types.Visibility) (bool, error)

	// MarkPaid sets the status of all lines of an order to StatusPaid.
	MarkPaid(ctx context.Context, orderID string) (bool, error)

	// Delete removes all lines of an order permanently.
	Delete(ctx context.Context, orderID string) (bool, error)
}
