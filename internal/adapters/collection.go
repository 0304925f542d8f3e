// Package adapters exposes the expense and limit collections stored as JSON
// documents in a storage.KV.
package adapters

import (
	"context"
	"slices"
	"sync"

	"spendwise/internal/storage"
)

// collection loads and saves one JSON array document. mu serializes
// read-modify-write cycles within the process.
type collection[T any] struct {
	mu  sync.Mutex
	kv  storage.KV
	key string
}

func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	var items []T
	if _, err := storage.GetJSON(ctx, c.kv, c.key, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return storage.SetJSON(ctx, c.kv, c.key, items)
}

// all returns a snapshot of the collection.
func (c *collection[T]) all(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clip(items), nil
}

// modify applies fn to the loaded items and stores the result unless fn
// fails. Nothing is written when fn returns an error.
func (c *collection[T]) modify(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, items)
}
