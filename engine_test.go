package salesledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/partsdesk/salesledger/cache"
	"github.com/partsdesk/salesledger/catalog"
	"github.com/partsdesk/salesledger/directory"
	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/store/memory"
	"github.com/partsdesk/salesledger/types"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	cat := catalog.NewStatic(
		catalog.Product{Code: "F-100", Name: "Oil filter", SellPrice: types.ARS(100000)},
		catalog.Product{Code: "B-200", Name: "Brake pads", LocalName: "Pastillas de freno", SellPrice: types.ARS(250000)},
		catalog.Product{Code: "S-300", Name: "Spark plug", SellPrice: types.ARS(35000)},
	)
	dir := directory.NewStatic(
		directory.Client{Name: "Ana"},
		directory.Client{Name: "Bruno"},
	)

	e := New(memory.New(), cat, dir, opts...)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = e.Stop() })
	return e
}

func TestCreateOrder(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	orderID, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Ana",
		Lines: []LineRequest{
			{ProductCode: "F-100", Quantity: 2},
			{ProductCode: "B-200"},
		},
		Comment: "first order",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if orderID != "PED001" {
		t.Errorf("orderID: got %s, want PED001", orderID)
	}

	lines, err := e.ClientOrders(ctx, "Ana", false)
	if err != nil {
		t.Fatalf("ClientOrders: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}
	for _, ln := range lines {
		if ln.OrderID != "PED001" {
			t.Errorf("all lines share the order number: got %s", ln.OrderID)
		}
		if ln.Status != order.StatusPending {
			t.Errorf("new lines are pending: got %s", ln.Status)
		}
		if ln.Visibility != types.Visible {
			t.Errorf("new lines are visible: got %s", ln.Visibility)
		}
		if ln.RowID.IsNil() {
			t.Error("lines carry a row ID")
		}
	}

	total := order.Total("ars", lines)
	if !total.Equal(types.ARS(450000)) { // 2x100000 + 250000
		t.Errorf("total: got %s, want $4500.00", total.String())
	}
}

func TestCreateOrderNumbering(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		orderID, err := e.CreateOrder(ctx, OrderRequest{
			Customer: "Ana",
			Lines:    []LineRequest{{ProductCode: "F-100"}},
		})
		if err != nil {
			t.Fatalf("CreateOrder %d: %v", i, err)
		}
		want := fmt.Sprintf("PED%03d", i)
		if orderID != want {
			t.Errorf("orderID: got %s, want %s", orderID, want)
		}
	}

	// Hard-deleting the latest order must not cause number reuse.
	if _, err := e.Delete(ctx, types.KindOrder, "PED003"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	orderID, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Bruno",
		Lines:    []LineRequest{{ProductCode: "S-300"}},
	})
	if err != nil {
		t.Fatalf("CreateOrder after delete: %v", err)
	}
	if orderID != "PED004" {
		t.Errorf("number after delete: got %s, want PED004 (no reuse)", orderID)
	}
}

func TestCreateOrderUnknownClient(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Nobody",
		Lines:    []LineRequest{{ProductCode: "F-100"}},
	})
	if !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("expected ErrUnknownClient, got %v", err)
	}

	lines, err := e.store.ListOrders(ctx, order.ListOpts{IncludeHidden: true})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("nothing must be written on validation failure, found %d lines", len(lines))
	}
}

func TestCreateOrderSkipsInvalidLines(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// Unknown product codes are skipped; valid lines survive.
	orderID, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Ana",
		Lines: []LineRequest{
			{ProductCode: "GHOST-1"},
			{ProductCode: "F-100"},
			{ProductCode: "GHOST-2"},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	lines, err := e.ClientOrders(ctx, "Ana", false)
	if err != nil {
		t.Fatalf("ClientOrders: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("surviving lines: got %d, want 1", len(lines))
	}
	if lines[0].OrderID != orderID || lines[0].ProductCode != "F-100" {
		t.Errorf("unexpected surviving line: %+v", lines[0])
	}

	// All lines invalid: nothing written, no number consumed.
	_, err = e.CreateOrder(ctx, OrderRequest{
		Customer: "Ana",
		Lines:    []LineRequest{{ProductCode: "GHOST-1"}, {ProductCode: "GHOST-2"}},
	})
	if !errors.Is(err, ErrNoValidLines) {
		t.Fatalf("expected ErrNoValidLines, got %v", err)
	}
	next, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Ana",
		Lines:    []LineRequest{{ProductCode: "S-300"}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if next != "PED002" {
		t.Errorf("rejected order must not consume a number: got %s, want PED002", next)
	}
}

func TestCreateOrderLineResolution(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	override := types.ARS(999)
	negative := types.ARS(-100)
	if _, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Ana",
		Lines: []LineRequest{
			{ProductCode: "F-100"},                       // catalog price, qty defaults to 1
			{ProductCode: "B-200", Quantity: 3},          // catalog price x3
			{ProductCode: "S-300", UnitPrice: &override}, // explicit price override
			{ProductCode: "F-100", UnitPrice: &negative}, // skipped: negative price
			{ProductCode: "B-200", Quantity: -2},         // skipped: negative quantity
		},
	}); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	lines, err := e.store.ListOrders(ctx, order.ListOpts{Customer: "Ana"})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want 3", len(lines))
	}

	byProduct := map[string]*order.Line{}
	for _, ln := range lines {
		byProduct[ln.ProductCode] = ln
	}

	if ln := byProduct["F-100"]; ln.Quantity != 1 || !ln.LineTotal.Equal(types.ARS(100000)) {
		t.Errorf("F-100: qty %d total %s, want 1 and $1000.00", ln.Quantity, ln.LineTotal.String())
	}
	if ln := byProduct["B-200"]; ln.Quantity != 3 || !ln.LineTotal.Equal(types.ARS(750000)) {
		t.Errorf("B-200: qty %d total %s, want 3 and $7500.00", ln.Quantity, ln.LineTotal.String())
	}
	if ln := byProduct["S-300"]; !ln.UnitPrice.Equal(override) {
		t.Errorf("S-300: price %s, want override %s", ln.UnitPrice.String(), override.String())
	}
	if ln := byProduct["B-200"]; ln.ProductName != "Pastillas de freno" {
		t.Errorf("local name preferred: got %q", ln.ProductName)
	}
}

func TestCreatePayment(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	paymentID, err := e.CreatePayment(ctx, PaymentRequest{
		Customer: "Ana",
		Amount:   types.ARS(50000),
		Comment:  "partial",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if paymentID != "PAG001" {
		t.Errorf("paymentID: got %s, want PAG001", paymentID)
	}

	if _, err := e.CreatePayment(ctx, PaymentRequest{Customer: "Nobody", Amount: types.ARS(1)}); !errors.Is(err, ErrUnknownClient) {
		t.Errorf("unknown client: got %v", err)
	}
	if _, err := e.CreatePayment(ctx, PaymentRequest{Customer: "Ana", Amount: types.ARS(0)}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v", err)
	}
	if _, err := e.CreatePayment(ctx, PaymentRequest{Customer: "Ana", Amount: types.ARS(-5)}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v", err)
	}

	payments, err := e.ClientPayments(ctx, "Ana", false)
	if err != nil {
		t.Fatalf("ClientPayments: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("rejected payments must not be written: got %d records", len(payments))
	}
}

func TestConcurrentPaymentNumbers(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := e.CreatePayment(ctx, PaymentRequest{
				Customer: "Ana",
				Amount:   types.ARS(int64(i+1) * 100),
			})
			if err != nil {
				t.Errorf("CreatePayment %d: %v", i, err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("payment number %s issued twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("unique numbers: got %d, want %d", len(seen), n)
	}
}

func TestCreateOrderWithPayment(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	orderID, paymentID, err := e.CreateOrderWithPayment(ctx, OrderRequest{
		Customer: "Ana",
		Lines: []LineRequest{
			{ProductCode: "F-100", Quantity: 2}, // 2 x $1000.00
		},
		Comment: "cash sale",
	})
	if err != nil {
		t.Fatalf("CreateOrderWithPayment: %v", err)
	}
	if orderID != "PED001" || paymentID != "PAG001" {
		t.Errorf("ids: got (%s, %s), want (PED001, PAG001)", orderID, paymentID)
	}

	payments, err := e.ClientPayments(ctx, "Ana", false)
	if err != nil {
		t.Fatalf("ClientPayments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments: got %d, want 1", len(payments))
	}
	p := payments[0]
	if !p.Amount.Equal(types.ARS(200000)) {
		t.Errorf("payment covers the full order total: got %s", p.Amount.String())
	}
	if p.OrderRef != orderID {
		t.Errorf("payment references the order: got %q", p.OrderRef)
	}
	if p.ProductRef != "F-100" {
		t.Errorf("payment references the first product: got %q", p.ProductRef)
	}
	if !strings.Contains(p.Comment, "immediate payment for order PED001") {
		t.Errorf("payment comment: got %q", p.Comment)
	}
	if !strings.Contains(p.Comment, "cash sale") {
		t.Errorf("payment comment keeps the caller's note: got %q", p.Comment)
	}

	lines, err := e.ClientOrders(ctx, "Ana", false)
	if err != nil {
		t.Fatalf("ClientOrders: %v", err)
	}
	for _, ln := range lines {
		if ln.Status != order.StatusPaid {
			t.Errorf("order lines flip to paid: got %s", ln.Status)
		}
	}

	b, err := e.ClientBalance(ctx, "Ana")
	if err != nil {
		t.Fatalf("ClientBalance: %v", err)
	}
	if !b.Net.IsZero() {
		t.Errorf("balance after immediate payment: got %s, want $0.00", b.Net.String())
	}
}

// failingPaymentStore wraps the memory store and fails every payment append,
// to exercise the partial-failure contract of the composite operation.
type failingPaymentStore struct {
	*memory.Store
}

func (s *failingPaymentStore) AppendPayment(context.Context, *payment.Payment) error {
	return errors.New("disk full")
}

func TestCreateOrderWithPaymentPartialFailure(t *testing.T) {
	cat := catalog.NewStatic(
		catalog.Product{Code: "F-100", Name: "Oil filter", SellPrice: types.ARS(100000)},
	)
	dir := directory.NewStatic(directory.Client{Name: "Ana"})
	e := New(&failingPaymentStore{memory.New()}, cat, dir)
	ctx := context.Background()
	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	orderID, paymentID, err := e.CreateOrderWithPayment(ctx, OrderRequest{
		Customer: "Ana",
		Lines:    []LineRequest{{ProductCode: "F-100"}},
	})
	if err == nil {
		t.Fatal("expected payment failure")
	}

	var pf *PaymentFailedError
	if !errors.As(err, &pf) {
		t.Fatalf("expected *PaymentFailedError, got %T: %v", err, err)
	}
	if pf.OrderID != "PED001" || orderID != "PED001" {
		t.Errorf("error carries the created order number: got %q / %q", pf.OrderID, orderID)
	}
	if paymentID != "" {
		t.Errorf("no payment number on failure: got %q", paymentID)
	}

	// The order survives; it is the caller's decision to retry or hide it.
	lines, listErr := e.ClientOrders(ctx, "Ana", false)
	if listErr != nil {
		t.Fatalf("ClientOrders: %v", listErr)
	}
	if len(lines) != 1 || lines[0].Status != order.StatusPending {
		t.Errorf("order must remain, pending: %+v", lines)
	}
}

func TestHideRestoreDelete(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	orderID, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Ana",
		Lines: []LineRequest{
			{ProductCode: "F-100"},
			{ProductCode: "B-200"},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// Hide affects every line of the order.
	matched, err := e.Hide(ctx, types.KindOrder, orderID)
	if err != nil || !matched {
		t.Fatalf("Hide: matched=%v err=%v", matched, err)
	}
	visible, _ := e.ClientOrders(ctx, "Ana", false)
	if len(visible) != 0 {
		t.Errorf("hidden lines excluded from listings: got %d", len(visible))
	}
	all, _ := e.ClientOrders(ctx, "Ana", true)
	if len(all) != 2 {
		t.Errorf("hidden lines still exist: got %d, want 2", len(all))
	}

	// Restore brings them back.
	matched, err = e.Restore(ctx, types.KindOrder, orderID)
	if err != nil || !matched {
		t.Fatalf("Restore: matched=%v err=%v", matched, err)
	}
	visible, _ = e.ClientOrders(ctx, "Ana", false)
	if len(visible) != 2 {
		t.Errorf("restored lines visible again: got %d, want 2", len(visible))
	}

	// Unknown record is a no-op, not an error.
	matched, err = e.Hide(ctx, types.KindOrder, "PED999")
	if err != nil {
		t.Fatalf("Hide unknown: %v", err)
	}
	if matched {
		t.Error("hiding an unknown record must not match")
	}

	// Invalid kind is rejected.
	if _, err := e.Hide(ctx, types.Kind("invoice"), orderID); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("invalid kind: got %v", err)
	}

	// Delete removes the record beyond include_hidden reach.
	matched, err = e.Delete(ctx, types.KindOrder, orderID)
	if err != nil || !matched {
		t.Fatalf("Delete: matched=%v err=%v", matched, err)
	}
	all, _ = e.ClientOrders(ctx, "Ana", true)
	if len(all) != 0 {
		t.Errorf("deleted lines gone even with include_hidden: got %d", len(all))
	}
}

func TestHideRestorePayment(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	paymentID, err := e.CreatePayment(ctx, PaymentRequest{
		Customer: "Ana",
		Amount:   types.ARS(10000),
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if matched, err := e.Hide(ctx, types.KindPayment, paymentID); err != nil || !matched {
		t.Fatalf("Hide payment: matched=%v err=%v", matched, err)
	}
	visible, _ := e.ClientPayments(ctx, "Ana", false)
	if len(visible) != 0 {
		t.Errorf("hidden payment excluded: got %d", len(visible))
	}

	if matched, err := e.Restore(ctx, types.KindPayment, paymentID); err != nil || !matched {
		t.Fatalf("Restore payment: matched=%v err=%v", matched, err)
	}
	if matched, err := e.Delete(ctx, types.KindPayment, paymentID); err != nil || !matched {
		t.Fatalf("Delete payment: matched=%v err=%v", matched, err)
	}
	all, _ := e.ClientPayments(ctx, "Ana", true)
	if len(all) != 0 {
		t.Errorf("deleted payment gone: got %d", len(all))
	}
}

func TestBalanceCacheInvalidation(t *testing.T) {
	e := newTestEngine(t, WithBalanceCache(cache.NewMemory()))
	ctx := context.Background()

	if _, err := e.CreateOrder(ctx, OrderRequest{
		Customer: "Ana",
		Lines:    []LineRequest{{ProductCode: "F-100"}},
	}); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	b, err := e.ClientBalance(ctx, "Ana")
	if err != nil {
		t.Fatalf("ClientBalance: %v", err)
	}
	if !b.Net.Equal(types.ARS(100000)) {
		t.Fatalf("balance: got %s, want $1000.00", b.Net.String())
	}

	// A new payment must invalidate the cached balance.
	if _, err := e.CreatePayment(ctx, PaymentRequest{Customer: "Ana", Amount: types.ARS(40000)}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	b, err = e.ClientBalance(ctx, "Ana")
	if err != nil {
		t.Fatalf("ClientBalance: %v", err)
	}
	if !b.Net.Equal(types.ARS(60000)) {
		t.Errorf("balance after payment: got %s, want $600.00", b.Net.String())
	}

	// Hiding a record clears all cached balances.
	if _, err := e.Hide(ctx, types.KindOrder, "PED001"); err != nil {
		t.Fatalf("Hide: %v", err)
	}
	b, err = e.ClientBalance(ctx, "Ana")
	if err != nil {
		t.Fatalf("ClientBalance: %v", err)
	}
	if !b.Net.Equal(types.ARS(-40000)) {
		t.Errorf("balance after hide: got %s, want -$400.00", b.Net.String())
	}
}
