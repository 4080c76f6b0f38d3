package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// MemoryCache is an in-process go-zero cache.Cache for tests.
type MemoryCache struct {
	mu     sync.Mutex
	items  map[string][]byte
	Hits   int
	Misses int
}

var _ cache.Cache = (*MemoryCache)(nil)

var errPlaceholder = sqlx.ErrNotFound

// NewMemoryCache returns an empty cache whose not-found error is sqlx.ErrNotFound.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: map[string][]byte{}}
}

// Has reports whether key currently holds a value.
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func (c *MemoryCache) Del(keys ...string) error {
	return c.DelCtx(context.Background(), keys...)
}

func (c *MemoryCache) DelCtx(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *MemoryCache) Get(key string, val any) error {
	return c.GetCtx(context.Background(), key, val)
}

func (c *MemoryCache) GetCtx(_ context.Context, key string, val any) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()
	if !ok || data == nil {
		return errPlaceholder
	}
	return json.Unmarshal(data, val)
}

func (c *MemoryCache) IsNotFound(err error) bool {
	return errors.Is(err, errPlaceholder)
}

func (c *MemoryCache) Set(key string, val any) error {
	return c.SetCtx(context.Background(), key, val)
}

func (c *MemoryCache) SetCtx(ctx context.Context, key string, val any) error {
	return c.SetWithExpireCtx(ctx, key, val, 0)
}

func (c *MemoryCache) SetWithExpire(key string, val any, expire time.Duration) error {
	return c.SetWithExpireCtx(context.Background(), key, val, expire)
}

func (c *MemoryCache) SetWithExpireCtx(_ context.Context, key string, val any, _ time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *MemoryCache) Take(val any, key string, query func(val any) error) error {
	return c.TakeCtx(context.Background(), val, key, query)
}

func (c *MemoryCache) TakeCtx(ctx context.Context, val any, key string, query func(val any) error) error {
	return c.TakeWithExpireCtx(ctx, val, key, func(v any, _ time.Duration) error {
		return query(v)
	})
}

func (c *MemoryCache) TakeWithExpire(val any, key string, query func(val any, expire time.Duration) error) error {
	return c.TakeWithExpireCtx(context.Background(), val, key, query)
}

func (c *MemoryCache) TakeWithExpireCtx(ctx context.Context, val any, key string, query func(val any, expire time.Duration) error) error {
	if err := c.GetCtx(ctx, key, val); err == nil {
		c.mu.Lock()
		c.Hits++
		c.mu.Unlock()
		return nil
	} else if !c.IsNotFound(err) {
		return err
	}

	c.mu.Lock()
	c.Misses++
	c.mu.Unlock()
	if err := query(val, time.Minute); err != nil {
		return err
	}
	return c.SetWithExpireCtx(ctx, key, val, time.Minute)
}
