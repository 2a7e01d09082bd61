// Package csvfile provides a store backed by two CSV files, one per table.
//
// Creation appends rows; visibility changes, status changes and deletes
// rewrite the whole table atomically (temp file + rename). That keeps the
// format trivially inspectable and is plenty for the record counts a small
// resale operation produces. Readers always see either the old file or the
// new one, never a partial row set.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/store"
	"github.com/partsdesk/salesledger/types"
)

const (
	ordersFile   = "orders.csv"
	paymentsFile = "payments.csv"
)

// Store persists the two ledger tables as CSV files inside one directory.
type Store struct {
	dir      string
	currency string

	ordersMu   sync.RWMutex
	paymentsMu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCurrency sets the currency used to parse money columns (default "ars").
func WithCurrency(currency string) Option {
	return func(s *Store) { s.currency = currency }
}

// New creates a CSV store rooted at dir. Missing files are treated as
// empty tables and bootstrapped with a header row by Migrate or on first
// write.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, currency: "ars"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ──────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────

func (s *Store) AppendOrderLines(_ context.Context, lines []*order.Line) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	rows := make([][]string, 0, len(lines))
	for _, ln := range lines {
		rows = append(rows, encodeOrderLine(ln))
	}
	return s.appendRows(s.ordersPath(), orderHeader, rows)
}

func (s *Store) ListOrders(_ context.Context, opts order.ListOpts) ([]*order.Line, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	all, err := s.readOrders()
	if err != nil {
		return nil, err
	}

	var result []*order.Line
	skipped := 0
	for _, ln := range all {
		if !opts.Matches(ln) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		result = append(result, ln)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) OrderIDs(_ context.Context) ([]string, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	all, err := s.readOrders()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(all))
	for _, ln := range all {
		ids = append(ids, ln.OrderID)
	}
	return ids, nil
}

func (s *Store) SetOrderVisibility(_ context.Context, orderID string, v types.Visibility) (bool, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	all, err := s.readOrders()
	if err != nil {
		return false, err
	}

	matched := false
	for _, ln := range all {
		if ln.OrderID == orderID {
			ln.Visibility = v
			matched = true
		}
	}
	if !matched {
		return false, nil
	}
	return true, s.rewriteOrders(all)
}

func (s *Store) MarkOrderPaid(_ context.Context, orderID string) (bool, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	all, err := s.readOrders()
	if err != nil {
		return false, err
	}

	matched := false
	for _, ln := range all {
		if ln.OrderID == orderID {
			ln.Status = order.StatusPaid
			matched = true
		}
	}
	if !matched {
		return false, nil
	}
	return true, s.rewriteOrders(all)
}

func (s *Store) DeleteOrder(_ context.Context, orderID string) (bool, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	all, err := s.readOrders()
	if err != nil {
		return false, err
	}

	kept := all[:0]
	matched := false
	for _, ln := range all {
		if ln.OrderID == orderID {
			matched = true
			continue
		}
		kept = append(kept, ln)
	}
	if !matched {
		return false, nil
	}
	return true, s.rewriteOrders(kept)
}

// ──────────────────────────────────────────────────
// Payments
// ──────────────────────────────────────────────────

func (s *Store) AppendPayment(_ context.Context, p *payment.Payment) error {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	return s.appendRows(s.paymentsPath(), paymentHeader, [][]string{encodePayment(p)})
}

func (s *Store) ListPayments(_ context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	s.paymentsMu.RLock()
	defer s.paymentsMu.RUnlock()

	all, err := s.readPayments()
	if err != nil {
		return nil, err
	}

	var result []*payment.Payment
	skipped := 0
	for _, p := range all {
		if !opts.Matches(p) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		result = append(result, p)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) PaymentIDs(_ context.Context) ([]string, error) {
	s.paymentsMu.RLock()
	defer s.paymentsMu.RUnlock()

	all, err := s.readPayments()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.PaymentID)
	}
	return ids, nil
}

func (s *Store) SetPaymentVisibility(_ context.Context, paymentID string, v types.Visibility) (bool, error) {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	all, err := s.readPayments()
	if err != nil {
		return false, err
	}

	matched := false
	for _, p := range all {
		if p.PaymentID == paymentID {
			p.Visibility = v
			matched = true
		}
	}
	if !matched {
		return false, nil
	}
	return true, s.rewritePayments(all)
}

func (s *Store) DeletePayment(_ context.Context, paymentID string) (bool, error) {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	all, err := s.readPayments()
	if err != nil {
		return false, err
	}

	kept := all[:0]
	matched := false
	for _, p := range all {
		if p.PaymentID == paymentID {
			matched = true
			continue
		}
		kept = append(kept, p)
	}
	if !matched {
		return false, nil
	}
	return true, s.rewritePayments(kept)
}

// ──────────────────────────────────────────────────
// Core
// ──────────────────────────────────────────────────

// Migrate bootstraps both CSV files with their header rows.
func (s *Store) Migrate(_ context.Context) error {
	s.ordersMu.Lock()
	err := s.ensureFile(s.ordersPath(), orderHeader)
	s.ordersMu.Unlock()
	if err != nil {
		return err
	}

	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()
	return s.ensureFile(s.paymentsPath(), paymentHeader)
}

// Ping verifies the data directory is reachable.
func (s *Store) Ping(_ context.Context) error {
	if _, err := os.Stat(s.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("csvfile: stat %s: %w", s.dir, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// File plumbing
// ──────────────────────────────────────────────────

func (s *Store) ordersPath() string   { return filepath.Join(s.dir, ordersFile) }
func (s *Store) paymentsPath() string { return filepath.Join(s.dir, paymentsFile) }

// readRecords loads a CSV file, skipping the header. A missing file is an
// empty table.
func (s *Store) readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("csvfile: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate short rows from older writers
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvfile: read %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func (s *Store) readOrders() ([]*order.Line, error) {
	records, err := s.readRecords(s.ordersPath())
	if err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(records))
	for i, rec := range records {
		ln, err := decodeOrderLine(s.currency, rec)
		if err != nil {
			return nil, fmt.Errorf("csvfile: %s row %d: %w", ordersFile, i+2, err)
		}
		lines = append(lines, ln)
	}
	return lines, nil
}

func (s *Store) readPayments() ([]*payment.Payment, error) {
	records, err := s.readRecords(s.paymentsPath())
	if err != nil {
		return nil, err
	}

	payments := make([]*payment.Payment, 0, len(records))
	for i, rec := range records {
		p, err := decodePayment(s.currency, rec)
		if err != nil {
			return nil, fmt.Errorf("csvfile: %s row %d: %w", paymentsFile, i+2, err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// ensureFile creates the file with its header when it does not exist yet.
// Caller holds the table lock.
func (s *Store) ensureFile(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("csvfile: stat %s: %w", path, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("csvfile: create %s: %w", s.dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("csvfile: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csvfile: write header %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// appendRows appends rows to a table file, bootstrapping it first when
// missing. Caller holds the table lock.
func (s *Store) appendRows(path string, header []string, rows [][]string) error {
	if err := s.ensureFile(path, header); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("csvfile: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csvfile: append %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csvfile: flush %s: %w", path, err)
	}
	return f.Sync()
}

// rewriteFile replaces a table file atomically. Caller holds the table lock.
func (s *Store) rewriteFile(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("csvfile: create %s: %w", s.dir, err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("csvfile: create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("csvfile: write header %s: %w", tmp, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("csvfile: write %s: %w", tmp, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csvfile: flush %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("csvfile: sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csvfile: close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("csvfile: replace %s: %w", path, err)
	}
	return nil
}

func (s *Store) rewriteOrders(lines []*order.Line) error {
	rows := make([][]string, 0, len(lines))
	for _, ln := range lines {
		rows = append(rows, encodeOrderLine(ln))
	}
	return s.rewriteFile(s.ordersPath(), orderHeader, rows)
}

func (s *Store) rewritePayments(payments []*payment.Payment) error {
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, encodePayment(p))
	}
	return s.rewriteFile(s.paymentsPath(), paymentHeader, rows)
}
