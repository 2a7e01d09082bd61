// Package cache provides the balance cache used by the ledger engine.
//
// Balances are derived by scanning both tables, so hot read paths cache
// the result under a short TTL. The engine invalidates a customer's entry
// on every write that touches them and clears the cache entirely on
// visibility changes and deletes.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/partsdesk/salesledger/types"
)

// ErrMiss is returned by Get when no live entry exists for the customer.
var ErrMiss = errors.New("cache: miss")

// Cache stores computed balances keyed by customer name.
type Cache interface {
	// Get returns the cached balance or ErrMiss.
	Get(ctx context.Context, customer string) (types.Balance, error)

	// Set stores a balance with a time-to-live.
	Set(ctx context.Context, customer string, b types.Balance, ttl time.Duration) error

	// Invalidate drops one customer's entry.
	Invalidate(ctx context.Context, customer string) error

	// Clear drops every entry.
	Clear(ctx context.Context) error

	Close() error
}
