package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/partsdesk/salesledger/types"
)

func testBalance(owed int64) types.Balance {
	b := types.Balance{
		TotalOrders:   types.ARS(owed),
		TotalPayments: types.Zero("ars"),
	}
	b.Net = b.TotalOrders.Subtract(b.TotalPayments)
	return b
}

func TestMemoryCache(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if _, err := c.Get(ctx, "Ana"); !errors.Is(err, ErrMiss) {
		t.Fatalf("empty cache: got %v, want ErrMiss", err)
	}

	want := testBalance(150000)
	if err := c.Set(ctx, "Ana", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "Ana")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Net.Equal(want.Net) {
		t.Errorf("cached balance: got %s, want %s", got.Net.String(), want.Net.String())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "Ana", testBalance(1000), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := c.Get(ctx, "Ana"); !errors.Is(err, ErrMiss) {
		t.Errorf("expired entry: got %v, want ErrMiss", err)
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	_ = c.Set(ctx, "Ana", testBalance(1000), time.Minute)
	_ = c.Set(ctx, "Bruno", testBalance(2000), time.Minute)

	if err := c.Invalidate(ctx, "Ana"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := c.Get(ctx, "Ana"); !errors.Is(err, ErrMiss) {
		t.Error("invalidated entry should miss")
	}
	if _, err := c.Get(ctx, "Bruno"); err != nil {
		t.Error("other entries should survive Invalidate")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get(ctx, "Bruno"); !errors.Is(err, ErrMiss) {
		t.Error("Clear should drop every entry")
	}
}
