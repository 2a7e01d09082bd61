package salesledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/partsdesk/salesledger/cache"
	"github.com/partsdesk/salesledger/catalog"
	"github.com/partsdesk/salesledger/directory"
	"github.com/partsdesk/salesledger/id"
	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/plugin"
	"github.com/partsdesk/salesledger/store"
	"github.com/partsdesk/salesledger/types"
)

// Engine is the order/payment ledger engine. It creates order and payment
// records with monotonically increasing document numbers, manages their
// soft-delete lifecycle, and derives customer balances from the two tables.
type Engine struct {
	store     store.Store
	catalog   catalog.Catalog
	directory directory.Directory
	plugins   *plugin.Registry
	logger    *slog.Logger

	// Per-table locks. Each mutating operation runs as one critical
	// section per table, so the next-number scan and the subsequent
	// append can never interleave with another writer.
	ordersMu   sync.Mutex
	paymentsMu sync.Mutex

	// Configuration
	currency   string
	balances   cache.Cache
	balanceTTL time.Duration
}

// New creates an Engine over a store and its two collaborators.
func New(s store.Store, cat catalog.Catalog, dir directory.Directory, opts ...Option) *Engine {
	e := &Engine{
		store:      s,
		catalog:    cat,
		directory:  dir,
		plugins:    plugin.NewRegistry(),
		logger:     slog.Default(),
		currency:   "ars",
		balanceTTL: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithCurrency sets the ledger currency (default "ars").
func WithCurrency(currency string) Option {
	return func(e *Engine) {
		e.currency = currency
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithBalanceCache caches ClientBalance results in c, invalidated on writes.
func WithBalanceCache(c cache.Cache) Option {
	return func(e *Engine) {
		e.balances = c
	}
}

// WithBalanceCacheTTL sets the balance cache TTL (default 30s).
func WithBalanceCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.balanceTTL = ttl
	}
}

// Currency returns the ledger currency.
func (e *Engine) Currency() string { return e.currency }

// Plugins returns the plugin registry.
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return storeErr("migrate", err)
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("ledger engine started",
		"currency", e.currency,
		"plugins", e.plugins.Count(),
	)
	return nil
}

// Stop shuts down plugins and closes the store.
func (e *Engine) Stop() error {
	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	if e.balances != nil {
		if err := e.balances.Close(); err != nil {
			e.logger.Warn("balance cache close failed", "error", err)
		}
	}

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Order creation
// ──────────────────────────────────────────────────

// LineRequest is one requested order line. UnitPrice nil means "use the
// catalog sell price"; Quantity zero means 1.
type LineRequest struct {
	ProductCode string
	Quantity    int64
	UnitPrice   *types.Money
}

// OrderRequest is a request to create one order of one or more lines.
type OrderRequest struct {
	Customer string
	Lines    []LineRequest
	Comment  string
}

// CreateOrder validates the request, resolves every line through the
// catalog, allocates one order number and appends all surviving lines.
// Lines whose product code does not resolve are skipped with a warning;
// if nothing survives the call fails with ErrNoValidLines and nothing is
// written. Returns the shared order number.
func (e *Engine) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	lines, err := e.createOrder(ctx, req)
	if err != nil {
		return "", err
	}
	return lines[0].OrderID, nil
}

// createOrder is CreateOrder returning the persisted lines, for the
// composite operation to total up.
func (e *Engine) createOrder(ctx context.Context, req OrderRequest) ([]*order.Line, error) {
	if !e.directory.Exists(req.Customer) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClient, req.Customer)
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: empty request", ErrNoValidLines)
	}

	now := time.Now().UTC().Truncate(time.Second)
	lines := make([]*order.Line, 0, len(req.Lines))
	for _, lr := range req.Lines {
		ln, ok := e.resolveLine(req, lr, now)
		if !ok {
			continue
		}
		lines = append(lines, ln)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: all %d lines skipped", ErrNoValidLines, len(req.Lines))
	}

	// next-number scan and append form one critical section
	e.ordersMu.Lock()
	defer e.ordersMu.Unlock()

	ids, err := e.store.OrderIDs(ctx)
	if err != nil {
		return nil, storeErr("scan order numbers", err)
	}
	orderID := id.Next(id.PrefixOrder, ids)
	for _, ln := range lines {
		ln.OrderID = orderID
	}

	if err := e.store.AppendOrderLines(ctx, lines); err != nil {
		return nil, storeErr("append order lines", err)
	}

	e.invalidateBalance(ctx, req.Customer)
	e.plugins.EmitOrderCreated(ctx, lines)

	e.logger.Info("order created",
		"order_id", orderID,
		"customer", req.Customer,
		"lines", len(lines),
		"total", order.Total(e.currency, lines).String(),
	)
	return lines, nil
}

// resolveLine turns a line request into a persisted line, or rejects it.
// Unknown product codes and negative unit prices invalidate the line; a
// zero quantity defaults to 1.
func (e *Engine) resolveLine(req OrderRequest, lr LineRequest, now time.Time) (*order.Line, bool) {
	name, ok := e.catalog.DisplayName(lr.ProductCode)
	if !ok {
		e.logger.Warn("order line skipped: unknown product",
			"customer", req.Customer,
			"product_code", lr.ProductCode,
		)
		return nil, false
	}

	unitPrice := e.catalog.SellPrice(lr.ProductCode)
	if lr.UnitPrice != nil {
		unitPrice = *lr.UnitPrice
	}
	if unitPrice.Currency == "" {
		unitPrice.Currency = e.currency
	}
	if unitPrice.IsNegative() {
		e.logger.Warn("order line skipped: negative unit price",
			"customer", req.Customer,
			"product_code", lr.ProductCode,
			"unit_price", unitPrice.String(),
		)
		return nil, false
	}

	qty := lr.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		e.logger.Warn("order line skipped: negative quantity",
			"customer", req.Customer,
			"product_code", lr.ProductCode,
			"quantity", qty,
		)
		return nil, false
	}

	return &order.Line{
		RowID:       id.NewOrderLineRowID(),
		Timestamp:   now,
		Customer:    req.Customer,
		ProductCode: lr.ProductCode,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		LineTotal:   unitPrice.Multiply(qty),
		Status:      order.StatusPending,
		Comment:     req.Comment,
		Visibility:  types.Visible,
	}, true
}

// ──────────────────────────────────────────────────
// Payment creation
// ──────────────────────────────────────────────────

// PaymentRequest is a request to record one payment. OrderRef and
// ProductRef are informational back-references and are not checked for
// existence.
type PaymentRequest struct {
	Customer   string
	Amount     types.Money
	OrderRef   string
	ProductRef string
	Comment    string
}

// CreatePayment validates the request, allocates one payment number and
// appends the record. The amount must be positive.
func (e *Engine) CreatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	if !e.directory.Exists(req.Customer) {
		return "", fmt.Errorf("%w: %q", ErrUnknownClient, req.Customer)
	}

	amount := req.Amount
	if amount.Currency == "" {
		amount.Currency = e.currency
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: %s", ErrInvalidAmount, amount.String())
	}

	p := &payment.Payment{
		RowID:      id.NewPaymentRowID(),
		Timestamp:  time.Now().UTC().Truncate(time.Second),
		Customer:   req.Customer,
		OrderRef:   req.OrderRef,
		ProductRef: req.ProductRef,
		Amount:     amount,
		Comment:    req.Comment,
		Visibility: types.Visible,
	}

	// next-number scan and append form one critical section
	e.paymentsMu.Lock()
	defer e.paymentsMu.Unlock()

	ids, err := e.store.PaymentIDs(ctx)
	if err != nil {
		return "", storeErr("scan payment numbers", err)
	}
	p.PaymentID = id.Next(id.PrefixPayment, ids)

	if err := e.store.AppendPayment(ctx, p); err != nil {
		return "", storeErr("append payment", err)
	}

	e.invalidateBalance(ctx, req.Customer)
	e.plugins.EmitPaymentCreated(ctx, p)

	e.logger.Info("payment created",
		"payment_id", p.PaymentID,
		"customer", req.Customer,
		"amount", amount.String(),
		"order_ref", req.OrderRef,
	)
	return p.PaymentID, nil
}

// CreateOrderWithPayment creates an order and immediately records a payment
// covering its full total, referencing the new order number. If order
// creation fails nothing is written. If the payment fails after the order
// was persisted, the order is NOT rolled back: the error is a
// *PaymentFailedError carrying the created order number so the caller can
// retry the payment or hide the order.
func (e *Engine) CreateOrderWithPayment(ctx context.Context, req OrderRequest) (orderID, paymentID string, err error) {
	lines, err := e.createOrder(ctx, req)
	if err != nil {
		return "", "", err
	}
	orderID = lines[0].OrderID

	comment := fmt.Sprintf("immediate payment for order %s", orderID)
	if req.Comment != "" {
		comment += " - " + req.Comment
	}

	paymentID, err = e.CreatePayment(ctx, PaymentRequest{
		Customer:   req.Customer,
		Amount:     order.Total(e.currency, lines),
		OrderRef:   orderID,
		ProductRef: lines[0].ProductCode,
		Comment:    comment,
	})
	if err != nil {
		return orderID, "", &PaymentFailedError{OrderID: orderID, Err: err}
	}

	e.ordersMu.Lock()
	matched, markErr := e.store.MarkOrderPaid(ctx, orderID)
	e.ordersMu.Unlock()
	if markErr != nil {
		// The ledger is already consistent; the paid flag is informational.
		e.logger.Warn("mark order paid failed",
			"order_id", orderID,
			"error", markErr,
		)
	} else if matched {
		e.plugins.EmitOrderPaid(ctx, orderID)
	}

	return orderID, paymentID, nil
}

// ──────────────────────────────────────────────────
// Visibility lifecycle
// ──────────────────────────────────────────────────

// Hide soft-deletes a record: the order's lines (all of them) or the single
// payment become invisible to listings and balances. Returns false when no
// record matched — a no-op, not an error.
func (e *Engine) Hide(ctx context.Context, kind types.Kind, recordID string) (bool, error) {
	return e.setVisibility(ctx, kind, recordID, types.Hidden)
}

// Restore reverses Hide.
func (e *Engine) Restore(ctx context.Context, kind types.Kind, recordID string) (bool, error) {
	return e.setVisibility(ctx, kind, recordID, types.Visible)
}

func (e *Engine) setVisibility(ctx context.Context, kind types.Kind, recordID string, v types.Visibility) (bool, error) {
	var (
		matched bool
		err     error
	)
	switch kind {
	case types.KindOrder:
		e.ordersMu.Lock()
		matched, err = e.store.SetOrderVisibility(ctx, recordID, v)
		e.ordersMu.Unlock()
	case types.KindPayment:
		e.paymentsMu.Lock()
		matched, err = e.store.SetPaymentVisibility(ctx, recordID, v)
		e.paymentsMu.Unlock()
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if err != nil {
		return false, storeErr("set visibility", err)
	}

	if matched {
		e.clearBalances(ctx)
		e.plugins.EmitVisibilityChanged(ctx, kind, recordID, v)
		e.logger.Info("visibility changed",
			"kind", string(kind),
			"id", recordID,
			"visibility", string(v),
		)
	}
	return matched, nil
}

// Delete removes a record permanently: the order's lines (all of them) or
// the single payment. Returns false when no record matched.
func (e *Engine) Delete(ctx context.Context, kind types.Kind, recordID string) (bool, error) {
	var (
		matched bool
		err     error
	)
	switch kind {
	case types.KindOrder:
		e.ordersMu.Lock()
		matched, err = e.store.DeleteOrder(ctx, recordID)
		e.ordersMu.Unlock()
	case types.KindPayment:
		e.paymentsMu.Lock()
		matched, err = e.store.DeletePayment(ctx, recordID)
		e.paymentsMu.Unlock()
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if err != nil {
		return false, storeErr("delete", err)
	}

	if matched {
		e.clearBalances(ctx)
		e.plugins.EmitRecordDeleted(ctx, kind, recordID)
		e.logger.Info("record deleted", "kind", string(kind), "id", recordID)
	}
	return matched, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// invalidateBalance drops one customer's cached balance after a write.
func (e *Engine) invalidateBalance(ctx context.Context, customer string) {
	if e.balances == nil {
		return
	}
	if err := e.balances.Invalidate(ctx, customer); err != nil {
		e.logger.Warn("balance cache invalidation failed",
			"customer", customer,
			"error", err,
		)
	}
}

// clearBalances drops every cached balance. Visibility and delete
// operations address records by number, not customer, so the affected
// customer is unknown without an extra read.
func (e *Engine) clearBalances(ctx context.Context) {
	if e.balances == nil {
		return
	}
	if err := e.balances.Clear(ctx); err != nil {
		e.logger.Warn("balance cache clear failed", "error", err)
	}
}

// storeErr wraps a storage failure so callers can classify it with
// IsStoreUnavailable while still unwrapping the driver error.
func storeErr(op string, err error) error {
	return fmt.Errorf("salesledger: %s: %w", op, errors.Join(ErrStoreUnavailable, err))
}
