// Package storage holds the key-value persistence port and its SQLite
// implementation. Collections are stored as JSON documents under a fixed key.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection keys.
const (
	KeyExpenses       = "expenses"
	KeySpendingLimits = "spending_limits"
)

var ErrKeyNotFound = errors.New("key not found")

// KV is a flat string-keyed document store.
type KV interface {
	// Get returns the stored value or an error wrapping ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// GetJSON decodes the document under key into v. A missing key leaves v
// untouched and reports found=false.
func GetJSON(ctx context.Context, kv KV, key string, v any) (found bool, err error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
