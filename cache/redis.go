package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/partsdesk/salesledger/types"
)

// Redis is a Cache backed by a Redis instance, for deployments where
// several processes read the same ledger.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ Cache = (*Redis)(nil)

// NewRedis creates a Redis balance cache. keyPrefix namespaces the entries
// ("salesledger:balance" when empty).
func NewRedis(client *redis.Client, keyPrefix string) *Redis {
	if keyPrefix == "" {
		keyPrefix = "salesledger:balance"
	}
	return &Redis{client: client, prefix: keyPrefix}
}

func (r *Redis) key(customer string) string {
	return r.prefix + ":" + customer
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, customer string) (types.Balance, error) {
	data, err := r.client.Get(ctx, r.key(customer)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return types.Balance{}, ErrMiss
		}
		return types.Balance{}, fmt.Errorf("cache: redis get: %w", err)
	}

	var b types.Balance
	if err := json.Unmarshal(data, &b); err != nil {
		// A corrupt entry is equivalent to a miss; it will be overwritten.
		return types.Balance{}, ErrMiss
	}
	return b, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, customer string, b types.Balance, ttl time.Duration) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("cache: encode balance: %w", err)
	}
	if err := r.client.Set(ctx, r.key(customer), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Invalidate implements Cache.
func (r *Redis) Invalidate(ctx context.Context, customer string) error {
	if err := r.client.Del(ctx, r.key(customer)).Err(); err != nil {
		return fmt.Errorf("cache: redis del: %w", err)
	}
	return nil
}

// Clear implements Cache. Entries are discovered by prefix scan so other
// keyspaces on the same Redis are untouched.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache: redis del %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: redis scan: %w", err)
	}
	return nil
}

// Close implements Cache.
func (r *Redis) Close() error { return r.client.Close() }
