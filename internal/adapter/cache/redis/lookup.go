// Package redis caches the recipient lists used by translators. Redis is an
// optimization only: when it fails or the breaker is open, lookups go to the source.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lmco/eurekastreams/internal/pkg/circuitbreaker"
	"github.com/lmco/eurekastreams/internal/pkg/logger"
	"github.com/lmco/eurekastreams/internal/port"
)

const keyPrefix = "lookup:"

type LookupCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.Breaker
}

func NewLookupCache(client *redis.Client, ttl time.Duration, breaker *circuitbreaker.Breaker) *LookupCache {
	return &LookupCache{client: client, ttl: ttl, breaker: breaker}
}

// List wraps an id-keyed lookup. name separates the key space of each list kind.
func (c *LookupCache) List(name string, source port.IDListLookup) port.IDListLookup {
	return func(ctx context.Context, id int64) ([]int64, error) {
		return c.lookup(ctx, listKey(name, id), func(ctx context.Context) ([]int64, error) {
			return source(ctx, id)
		})
	}
}

func (c *LookupCache) Set(name string, source port.IDSetLookup) port.IDSetLookup {
	return func(ctx context.Context) ([]int64, error) {
		return c.lookup(ctx, keyPrefix+name, source)
	}
}

// Invalidate drops the cached list for id, e.g. after a membership change.
func (c *LookupCache) Invalidate(ctx context.Context, name string, id int64) error {
	err := c.breaker.Do(func() error {
		return c.client.Del(ctx, listKey(name, id)).Err()
	})
	if err != nil {
		return fmt.Errorf("invalidate %s %d: %w", name, id, err)
	}
	return nil
}

func (c *LookupCache) lookup(ctx context.Context, key string, source port.IDSetLookup) ([]int64, error) {
	ids, hit := c.get(ctx, key)
	if hit {
		return ids, nil
	}

	ids, err := source(ctx)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, ids)
	return ids, nil
}

func (c *LookupCache) get(ctx context.Context, key string) ([]int64, bool) {
	var raw []byte
	err := c.breaker.Do(func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		raw = b
		return err
	})
	if err != nil {
		logger.From(ctx).Warn("lookup cache read failed", "key", key, "error", err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		logger.From(ctx).Warn("lookup cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return ids, true
}

func (c *LookupCache) put(ctx context.Context, key string, ids []int64) {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	err = c.breaker.Do(func() error {
		return c.client.Set(ctx, key, raw, c.ttl).Err()
	})
	if err != nil {
		logger.From(ctx).Warn("lookup cache write failed", "key", key, "error", err)
	}
}

func listKey(name string, id int64) string {
	return keyPrefix + name + ":" + strconv.FormatInt(id, 10)
}
