package payment

import (
	"context"

	"github.com/partsdesk/salesledger/types"
)

// Store is the payment-table contract a storage backend must satisfy.
type Store interface {
	Append(ctx context.Context, p *Payment) error
	List(ctx context.Context, opts ListOpts) ([]*Payment, error)

	// IDs returns every payment number present, hidden rows included.
	IDs(ctx context.Context) ([]string, error)

	// SetVisibility flips the visibility of a payment.
	// Returns false when no record matched.
	SetVisibility(ctx context.Context, paymentID string, v types.Visibility) (bool, error)

	// Delete removes a payment permanently.
	Delete(ctx context.Context, paymentID string) (bool, error)
}
