package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/partsdesk/salesledger/types"
)

// File is a Catalog backed by a JSON file of the form
//
//	{"products": [{"code": "...", "name": "...", ...}, ...]}
//
// A missing file is treated as an empty catalog and created on first Add.
type File struct {
	path string

	mu       sync.RWMutex
	products map[string]Product
}

var _ Catalog = (*File)(nil)

type fileDoc struct {
	Products []Product `json:"products"`
}

// NewFile opens (or bootstraps) a JSON-file catalog at path.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the backing file, replacing the in-memory snapshot.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.mu.Lock()
			f.products = make(map[string]Product)
			f.mu.Unlock()
			return nil
		}
		return fmt.Errorf("catalog: read %s: %w", f.path, err)
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", f.path, err)
	}

	products := make(map[string]Product, len(doc.Products))
	for _, p := range doc.Products {
		products[p.Code] = p
	}

	f.mu.Lock()
	f.products = products
	f.mu.Unlock()
	return nil
}

// Product implements Catalog.
func (f *File) Product(code string) (Product, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.products[code]
	return p, ok
}

// SellPrice implements Catalog.
func (f *File) SellPrice(code string) types.Money {
	p, ok := f.Product(code)
	if !ok {
		return types.Zero("ars")
	}
	return p.SellPrice
}

// DisplayName implements Catalog.
func (f *File) DisplayName(code string) (string, bool) {
	p, ok := f.Product(code)
	if !ok {
		return "", false
	}
	return p.DisplayName(), true
}

// Exists implements Catalog.
func (f *File) Exists(code string) bool {
	_, ok := f.Product(code)
	return ok
}

// Search implements Catalog.
func (f *File) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	codes := make([]string, 0, len(f.products))
	for code := range f.products {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var results []Product
	for _, code := range codes {
		if p := f.products[code]; p.matches(term) {
			results = append(results, p)
			if len(results) == searchLimit {
				break
			}
		}
	}
	return results
}

// Add implements Catalog. The new product is persisted immediately; the
// write replaces the whole file atomically (temp file + rename).
func (f *File) Add(p Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.products[p.Code]; exists {
		return fmt.Errorf("catalog: product %q already exists", p.Code)
	}

	next := make(map[string]Product, len(f.products)+1)
	for code, existing := range f.products {
		next[code] = existing
	}
	next[p.Code] = p

	if err := f.persist(next); err != nil {
		return err
	}
	f.products = next
	return nil
}

// persist writes the catalog snapshot back to disk. Caller holds f.mu.
func (f *File) persist(products map[string]Product) error {
	doc := fileDoc{Products: make([]Product, 0, len(products))}

	codes := make([]string, 0, len(products))
	for code := range products {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		doc.Products = append(doc.Products, products[code])
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("catalog: create directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("catalog: replace %s: %w", f.path, err)
	}
	return nil
}
