// Package cache keeps recently read documents in memory in front of a
// storage.KV.
package cache

import (
	"context"
	"time"

	"spendwise/internal/storage"
)

// KV is a read-through, write-through cache over another store. Misses
// (ErrKeyNotFound) are not cached.
type KV struct {
	inner storage.KV
	docs  *LRU[[]byte]
}

func NewKV(inner storage.KV, size int, ttl time.Duration) *KV {
	return &KV{inner: inner, docs: NewLRU[[]byte](size, ttl)}
}

func (c *KV) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.docs.Get(key); ok {
		return clone(v), nil
	}
	v, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.docs.Set(key, clone(v))
	return v, nil
}

func (c *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := c.inner.Set(ctx, key, value); err != nil {
		c.docs.Delete(key)
		return err
	}
	c.docs.Set(key, clone(value))
	return nil
}

func (c *KV) Remove(ctx context.Context, key string) error {
	c.docs.Delete(key)
	return c.inner.Remove(ctx, key)
}

func (c *KV) Clear(ctx context.Context) error {
	c.docs.Purge()
	return c.inner.Clear(ctx)
}

// RunCleanup drops expired documents every interval until ctx is done.
func (c *KV) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.docs.CleanExpired()
		case <-ctx.Done():
			return
		}
	}
}

func (c *KV) Stats() Stats {
	return c.docs.Stats()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
