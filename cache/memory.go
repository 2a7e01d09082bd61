package cache

import (
	"context"
	"sync"
	"time"

	"github.com/partsdesk/salesledger/types"
)

// Memory is an in-process Cache. Entries expire lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	balance   types.Balance
	expiresAt time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory creates an empty in-process balance cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, customer string) (types.Balance, error) {
	m.mu.RLock()
	entry, ok := m.entries[customer]
	m.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return types.Balance{}, ErrMiss
	}
	return entry.balance, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, customer string, b types.Balance, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[customer] = memoryEntry{
		balance:   b,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate implements Cache.
func (m *Memory) Invalidate(_ context.Context, customer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, customer)
	return nil
}

// Clear implements Cache.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Close implements Cache.
func (m *Memory) Close() error { return nil }
