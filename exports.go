package salesledger

import "github.com/partsdesk/salesledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Balance is re-exported from types package.
type Balance = types.Balance

// Visibility is re-exported from types package.
type Visibility = types.Visibility

// Kind is re-exported from types package.
type Kind = types.Kind

// Re-export Money constructors
var (
	ARS  = types.ARS
	USD  = types.USD
	EUR  = types.EUR
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export record enum values
const (
	Visible     = types.Visible
	Hidden      = types.Hidden
	KindOrder   = types.KindOrder
	KindPayment = types.KindPayment
)
