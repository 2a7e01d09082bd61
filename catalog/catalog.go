// Package catalog provides the read-mostly product catalog the ledger
// engine consults for pricing and display names.
//
// The engine never owns catalog data; a Catalog is injected at construction
// and can be reloaded explicitly when the backing data changes.
package catalog

import (
	"strings"

	"github.com/partsdesk/salesledger/types"
)

// searchLimit caps Search results to keep lookups cheap for interactive use.
const searchLimit = 20

// Product is one catalog entry. LocalName is the local-language display
// name; DisplayName prefers it and falls back to Name. Free-form vendor
// data goes into Attributes rather than ad-hoc fields.
type Product struct {
	Code       string            `json:"code"`
	Name       string            `json:"name"`
	LocalName  string            `json:"local_name,omitempty"`
	SellPrice  types.Money       `json:"sell_price"`
	WeightKg   float64           `json:"weight_kg,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// DisplayName returns the local-language name when present, else Name.
func (p Product) DisplayName() string {
	if strings.TrimSpace(p.LocalName) != "" {
		return p.LocalName
	}
	return p.Name
}

// Catalog is the product lookup collaborator.
type Catalog interface {
	// Product returns the full entry for a code.
	Product(code string) (Product, bool)

	// SellPrice returns the sell price for a code, or zero when unknown.
	SellPrice(code string) types.Money

	// DisplayName returns the preferred display name for a code.
	DisplayName(code string) (string, bool)

	// Exists reports whether the code resolves.
	Exists(code string) bool

	// Search matches term against code, name and local name
	// (case-insensitive substring), capped at 20 results.
	Search(term string) []Product

	// Add registers a new product. Duplicate codes are rejected.
	Add(p Product) error

	// Reload re-reads the backing data. In-memory implementations no-op.
	Reload() error
}

// matches reports whether the product matches a lowered search term.
func (p Product) matches(loweredTerm string) bool {
	return strings.Contains(strings.ToLower(p.Code), loweredTerm) ||
		strings.Contains(strings.ToLower(p.Name), loweredTerm) ||
		strings.Contains(strings.ToLower(p.LocalName), loweredTerm)
}
