// Package sqlite implements the ledger store on SQLite via database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/partsdesk/salesledger/id"
	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/store"
	"github.com/partsdesk/salesledger/types"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// timeLayout is the UTC text format for timestamp columns.
const timeLayout = "2006-01-02 15:04:05"

// Store implements store.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

// New wraps an existing database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) a SQLite database at path and wraps it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent mutations.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// DB returns the underlying database handle for direct access.
func (s *Store) DB() *sql.DB { return s.db }

// Migrate creates the required tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migration failed: %w", err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Orders ====================

func (s *Store) AppendOrderLines(ctx context.Context, lines []*order.Line) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
INSERT INTO ledger_order_lines
    (row_id, timestamp, order_id, customer, product_code, product_name,
     unit_price, quantity, line_total, currency, status, comment, visibility)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, ln := range lines {
		_, err := tx.ExecContext(ctx, q,
			ln.RowID.String(),
			ln.Timestamp.UTC().Format(timeLayout),
			ln.OrderID,
			ln.Customer,
			ln.ProductCode,
			ln.ProductName,
			ln.UnitPrice.Amount,
			ln.Quantity,
			ln.LineTotal.Amount,
			ln.UnitPrice.Currency,
			string(ln.Status),
			ln.Comment,
			string(ln.Visibility),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Line, error) {
	q := `
SELECT row_id, timestamp, order_id, customer, product_code, product_name,
       unit_price, quantity, line_total, currency, status, comment, visibility
FROM ledger_order_lines WHERE 1=1`
	var args []any

	if opts.Customer != "" {
		q += " AND customer = ?"
		args = append(args, opts.Customer)
	}
	if opts.OrderID != "" {
		q += " AND order_id = ?"
		args = append(args, opts.OrderID)
	}
	if opts.Status != "" {
		q += " AND status = ?"
		args = append(args, string(opts.Status))
	}
	if !opts.IncludeHidden {
		q += " AND visibility = ?"
		args = append(args, string(types.Visible))
	}
	q += " ORDER BY timestamp ASC, row_id ASC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			q += " LIMIT -1"
		}
		q += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*order.Line
	for rows.Next() {
		ln, err := scanOrderLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ln)
	}
	return result, rows.Err()
}

func (s *Store) OrderIDs(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, `SELECT order_id FROM ledger_order_lines ORDER BY timestamp ASC, row_id ASC`)
}

func (s *Store) SetOrderVisibility(ctx context.Context, orderID string, v types.Visibility) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ledger_order_lines SET visibility = ? WHERE order_id = ?`,
		string(v), orderID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Store) MarkOrderPaid(ctx context.Context, orderID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ledger_order_lines SET status = ? WHERE order_id = ?`,
		string(order.StatusPaid), orderID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Store) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ledger_order_lines WHERE order_id = ?`, orderID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// ==================== Payments ====================

func (s *Store) AppendPayment(ctx context.Context, p *payment.Payment) error {
	const q = `
INSERT INTO ledger_payments
    (row_id, timestamp, payment_id, customer, order_ref, product_ref,
     amount, currency, comment, visibility)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		p.RowID.String(),
		p.Timestamp.UTC().Format(timeLayout),
		p.PaymentID,
		p.Customer,
		p.OrderRef,
		p.ProductRef,
		p.Amount.Amount,
		p.Amount.Currency,
		p.Comment,
		string(p.Visibility),
	)
	return err
}

func (s *Store) ListPayments(ctx context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	q := `
SELECT row_id, timestamp, payment_id, customer, order_ref, product_ref,
       amount, currency, comment, visibility
FROM ledger_payments WHERE 1=1`
	var args []any

	if opts.Customer != "" {
		q += " AND customer = ?"
		args = append(args, opts.Customer)
	}
	if opts.OrderRef != "" {
		q += " AND order_ref = ?"
		args = append(args, opts.OrderRef)
	}
	if !opts.IncludeHidden {
		q += " AND visibility = ?"
		args = append(args, string(types.Visible))
	}
	q += " ORDER BY timestamp ASC, row_id ASC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			q += " LIMIT -1"
		}
		q += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) PaymentIDs(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, `SELECT payment_id FROM ledger_payments ORDER BY timestamp ASC, row_id ASC`)
}

func (s *Store) SetPaymentVisibility(ctx context.Context, paymentID string, v types.Visibility) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ledger_payments SET visibility = ? WHERE payment_id = ?`,
		string(v), paymentID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Store) DeletePayment(ctx context.Context, paymentID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ledger_payments WHERE payment_id = ?`, paymentID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// ==================== Helpers ====================

func (s *Store) listIDs(ctx context.Context, q string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ids = append(ids, v)
	}
	return ids, rows.Err()
}

func scanOrderLine(rows *sql.Rows) (*order.Line, error) {
	var (
		ln        order.Line
		rawRowID  string
		rawTime   string
		unitPrice int64
		lineTotal int64
		currency  string
		status    string
		vis       string
	)
	err := rows.Scan(&rawRowID, &rawTime, &ln.OrderID, &ln.Customer,
		&ln.ProductCode, &ln.ProductName, &unitPrice, &ln.Quantity,
		&lineTotal, &currency, &status, &ln.Comment, &vis)
	if err != nil {
		return nil, err
	}

	ln.RowID, err = id.ParseRowID(rawRowID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: row_id %q: %w", rawRowID, err)
	}
	ln.Timestamp, err = parseTime(rawTime)
	if err != nil {
		return nil, fmt.Errorf("sqlite: timestamp %q: %w", rawTime, err)
	}
	ln.UnitPrice = types.Money{Amount: unitPrice, Currency: currency}
	ln.LineTotal = types.Money{Amount: lineTotal, Currency: currency}
	ln.Status = order.Status(status)
	ln.Visibility = types.Visibility(vis)
	return &ln, nil
}

func scanPayment(rows *sql.Rows) (*payment.Payment, error) {
	var (
		p        payment.Payment
		rawRowID string
		rawTime  string
		amount   int64
		currency string
		vis      string
	)
	err := rows.Scan(&rawRowID, &rawTime, &p.PaymentID, &p.Customer,
		&p.OrderRef, &p.ProductRef, &amount, &currency, &p.Comment, &vis)
	if err != nil {
		return nil, err
	}

	p.RowID, err = id.ParseRowID(rawRowID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: row_id %q: %w", rawRowID, err)
	}
	p.Timestamp, err = parseTime(rawTime)
	if err != nil {
		return nil, fmt.Errorf("sqlite: timestamp %q: %w", rawTime, err)
	}
	p.Amount = types.Money{Amount: amount, Currency: currency}
	p.Visibility = types.Visibility(vis)
	return &p, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

func affected(res sql.Result) (bool, error) {
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
