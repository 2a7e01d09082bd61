package types

// Visibility is the soft-delete flag carried by every ledger record.
// Hidden records are excluded from customer-facing listings and balances
// but still exist in the table until hard-deleted.
type Visibility string

const (
	Visible Visibility = "visible"
	Hidden  Visibility = "hidden"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	return v == Visible || v == Hidden
}

// Kind names one of the two ledger tables.
type Kind string

const (
	KindOrder   Kind = "order"
	KindPayment Kind = "payment"
)

// Valid reports whether k is a known record kind.
func (k Kind) Valid() bool {
	return k == KindOrder || k == KindPayment
}
