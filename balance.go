package salesledger

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/types"
)

// ClientOrders returns a customer's order lines, newest first. Hidden lines
// are excluded unless includeHidden is set.
func (e *Engine) ClientOrders(ctx context.Context, customer string, includeHidden bool) ([]*order.Line, error) {
	lines, err := e.store.ListOrders(ctx, order.ListOpts{
		Customer:      customer,
		IncludeHidden: includeHidden,
	})
	if err != nil {
		return nil, storeErr("list orders", err)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Timestamp.After(lines[j].Timestamp)
	})
	return lines, nil
}

// ClientPayments returns a customer's payments, newest first. Hidden
// payments are excluded unless includeHidden is set.
func (e *Engine) ClientPayments(ctx context.Context, customer string, includeHidden bool) ([]*payment.Payment, error) {
	payments, err := e.store.ListPayments(ctx, payment.ListOpts{
		Customer:      customer,
		IncludeHidden: includeHidden,
	})
	if err != nil {
		return nil, storeErr("list payments", err)
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Timestamp.After(payments[j].Timestamp)
	})
	return payments, nil
}

// ClientBalance reconciles the two tables for one customer over visible
// records only. A positive balance means the customer owes money, a
// negative one means the customer holds credit.
func (e *Engine) ClientBalance(ctx context.Context, customer string) (types.Balance, error) {
	if e.balances != nil {
		if b, err := e.balances.Get(ctx, customer); err == nil {
			e.logger.Debug("balance cache hit", "customer", customer)
			return b, nil
		}
	}

	var (
		lines    []*order.Line
		payments []*payment.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = e.store.ListOrders(gctx, order.ListOpts{Customer: customer})
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = e.store.ListPayments(gctx, payment.ListOpts{Customer: customer})
		return err
	})
	if err := g.Wait(); err != nil {
		return types.Balance{}, storeErr("load balance inputs", err)
	}

	b := types.Balance{
		TotalOrders:   order.Total(e.currency, lines),
		TotalPayments: payment.Total(e.currency, payments),
	}
	b.Net = b.TotalOrders.Subtract(b.TotalPayments)

	if e.balances != nil {
		if err := e.balances.Set(ctx, customer, b, e.balanceTTL); err != nil {
			e.logger.Warn("balance cache set failed", "customer", customer, "error", err)
		}
	}
	return b, nil
}

// AllBalances computes the balance of every customer appearing in either
// table, visible records only.
func (e *Engine) AllBalances(ctx context.Context) (map[string]types.Balance, error) {
	var (
		lines    []*order.Line
		payments []*payment.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = e.store.ListOrders(gctx, order.ListOpts{})
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = e.store.ListPayments(gctx, payment.ListOpts{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr("load balance inputs", err)
	}

	balances := make(map[string]types.Balance)
	get := func(customer string) types.Balance {
		if b, ok := balances[customer]; ok {
			return b
		}
		return types.Balance{
			TotalOrders:   types.Zero(e.currency),
			TotalPayments: types.Zero(e.currency),
		}
	}

	for _, ln := range lines {
		b := get(ln.Customer)
		b.TotalOrders = b.TotalOrders.Add(ln.LineTotal)
		balances[ln.Customer] = b
	}
	for _, p := range payments {
		b := get(p.Customer)
		b.TotalPayments = b.TotalPayments.Add(p.Amount)
		balances[p.Customer] = b
	}

	for customer, b := range balances {
		b.Net = b.TotalOrders.Subtract(b.TotalPayments)
		balances[customer] = b
	}
	return balances, nil
}

// Statistics reports operational volume across the whole ledger.
type Statistics struct {
	OrderLineCount int         `json:"order_line_count"`
	PaymentCount   int         `json:"payment_count"`
	TotalSales     types.Money `json:"total_sales"`
	TotalPayments  types.Money `json:"total_payments"`
	NetBalance     types.Money `json:"net_balance"`
	UniqueClients  int         `json:"unique_clients"`
	UniqueProducts int         `json:"unique_products"`
}

// Statistics aggregates across ALL records, hidden included: it reports
// operational volume, not customer-facing balances, so soft-deleted rows
// still count.
func (e *Engine) Statistics(ctx context.Context) (*Statistics, error) {
	var (
		lines    []*order.Line
		payments []*payment.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = e.store.ListOrders(gctx, order.ListOpts{IncludeHidden: true})
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = e.store.ListPayments(gctx, payment.ListOpts{IncludeHidden: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr("load statistics inputs", err)
	}

	clients := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, ln := range lines {
		clients[ln.Customer] = struct{}{}
		if ln.ProductCode != "" {
			products[ln.ProductCode] = struct{}{}
		}
	}
	for _, p := range payments {
		clients[p.Customer] = struct{}{}
	}

	stats := &Statistics{
		OrderLineCount: len(lines),
		PaymentCount:   len(payments),
		TotalSales:     order.Total(e.currency, lines),
		TotalPayments:  payment.Total(e.currency, payments),
		UniqueClients:  len(clients),
		UniqueProducts: len(products),
	}
	stats.NetBalance = stats.TotalSales.Subtract(stats.TotalPayments)
	return stats, nil
}
