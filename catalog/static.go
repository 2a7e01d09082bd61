package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/partsdesk/salesledger/types"
)

// Static is an in-memory Catalog, used in tests and by callers that embed
// their product data.
type Static struct {
	mu       sync.RWMutex
	products map[string]Product
}

var _ Catalog = (*Static)(nil)

// NewStatic creates a Static catalog seeded with the given products.
// Later duplicates of a code silently win; use Add for checked insertion.
func NewStatic(products ...Product) *Static {
	s := &Static{products: make(map[string]Product, len(products))}
	for _, p := range products {
		s.products[p.Code] = p
	}
	return s
}

// Product implements Catalog.
func (s *Static) Product(code string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[code]
	return p, ok
}

// SellPrice implements Catalog.
func (s *Static) SellPrice(code string) types.Money {
	p, ok := s.Product(code)
	if !ok {
		return types.Zero("ars")
	}
	return p.SellPrice
}

// DisplayName implements Catalog.
func (s *Static) DisplayName(code string) (string, bool) {
	p, ok := s.Product(code)
	if !ok {
		return "", false
	}
	return p.DisplayName(), true
}

// Exists implements Catalog.
func (s *Static) Exists(code string) bool {
	_, ok := s.Product(code)
	return ok
}

// Search implements Catalog.
func (s *Static) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.products))
	for code := range s.products {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var results []Product
	for _, code := range codes {
		if p := s.products[code]; p.matches(term) {
			results = append(results, p)
			if len(results) == searchLimit {
				break
			}
		}
	}
	return results
}

// Add implements Catalog.
func (s *Static) Add(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.Code]; exists {
		return fmt.Errorf("catalog: product %q already exists", p.Code)
	}
	s.products[p.Code] = p
	return nil
}

// Reload implements Catalog. In-memory data has nothing to reload.
func (s *Static) Reload() error { return nil }
