// Package id provides the two identifier families used by the sales ledger.
//
// Human-readable document numbers ("PED001", "PAG042") are monotonically
// increasing per table and are what customers and operators see. They are
// derived from the current table contents with Next, which is a pure
// function — callers must serialize the scan-and-append sequence themselves
// (the Engine does this under its per-table lock).
//
// Row IDs are TypeID-based (K-sortable, globally unique, "prefix_suffix")
// and give every persisted row its own identity, so the lines of a
// multi-line order stay individually addressable in any store backend.
package id

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies a document number family.
type Prefix string

const (
	// PrefixOrder is the order number prefix ("PED001", "PED002", ...).
	PrefixOrder Prefix = "PED"
	// PrefixPayment is the payment number prefix ("PAG001", "PAG002", ...).
	PrefixPayment Prefix = "PAG"
)

// minDigits is the zero-padding width for document numbers. Numbers beyond
// 999 simply grow wider ("PED1000"); padding never truncates.
const minDigits = 3

// Next derives the next document number for a prefix from the identifiers
// currently in the table. Identifiers that don't match ^PREFIX\d+$ exactly
// (case-sensitive) are ignored. With no match the sequence starts at 001.
//
// Next never re-issues a number: once PED007 exists the result is at least
// PED008, even if lower numbers were hard-deleted. It is a pure function of
// its inputs and is NOT safe against concurrent allocators on its own — the
// caller must hold the table lock across the scan and the subsequent append.
func Next(prefix Prefix, existing []string) string {
	highest := 0
	for _, s := range existing {
		n, ok := Sequence(prefix, s)
		if ok && n > highest {
			highest = n
		}
	}
	return Format(prefix, highest+1)
}

// Sequence extracts the numeric component of a document number.
// Returns false when s is not of the form PREFIX followed by digits only.
func Sequence(prefix Prefix, s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, string(prefix))
	if !ok || rest == "" {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Format renders a document number with standard zero padding.
func Format(prefix Prefix, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, minDigits, n)
}

// Valid reports whether s is a well-formed document number for the prefix.
func Valid(prefix Prefix, s string) bool {
	_, ok := Sequence(prefix, s)
	return ok
}

// ──────────────────────────────────────────────────
// Row identity
// ──────────────────────────────────────────────────

// Row prefixes for TypeID-based per-row identifiers.
const (
	rowPrefixOrderLine = "oln"
	rowPrefixPayment   = "pay"
)

// RowID is the per-row identifier carried by every persisted record.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type RowID struct {
	inner typeid.TypeID
	valid bool
}

// NilRow is the zero-value RowID.
var NilRow RowID

// NewOrderLineRowID generates a unique row ID for an order line ("oln_...").
func NewOrderLineRowID() RowID { return newRowID(rowPrefixOrderLine) }

// NewPaymentRowID generates a unique row ID for a payment ("pay_...").
func NewPaymentRowID() RowID { return newRowID(rowPrefixPayment) }

func newRowID(prefix string) RowID {
	tid, err := typeid.Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("id: invalid row prefix %q: %v", prefix, err))
	}
	return RowID{inner: tid, valid: true}
}

// ParseRowID parses a TypeID string (e.g., "oln_01h2xcejqtf2nbrexx3vqjhp41").
func ParseRowID(s string) (RowID, error) {
	if s == "" {
		return NilRow, fmt.Errorf("id: parse row id: empty string")
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return NilRow, fmt.Errorf("id: parse row id %q: %w", s, err)
	}
	return RowID{inner: tid, valid: true}, nil
}

// String returns the full "prefix_suffix" representation, or "" for NilRow.
func (r RowID) String() string {
	if !r.valid {
		return ""
	}
	return r.inner.String()
}

// IsNil reports whether this RowID is the zero value.
func (r RowID) IsNil() bool { return !r.valid }

// MarshalText implements encoding.TextMarshaler.
func (r RowID) MarshalText() ([]byte, error) {
	if !r.valid {
		return []byte{}, nil
	}
	return []byte(r.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RowID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*r = NilRow
		return nil
	}
	parsed, err := ParseRowID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
func (r RowID) Value() (driver.Value, error) {
	if !r.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}
	return r.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (r *RowID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = NilRow
		return nil
	case string:
		if v == "" {
			*r = NilRow
			return nil
		}
		return r.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*r = NilRow
			return nil
		}
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into RowID", src)
	}
}
