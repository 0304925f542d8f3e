package adapters

import (
	"context"
	"fmt"
	"slices"

	"spendwise/internal/core"
	"spendwise/internal/limits"
	"spendwise/internal/storage"
)

// LimitStore implements limits.Repository over storage.KeySpendingLimits.
type LimitStore struct {
	c collection[core.SpendingLimit]
}

var _ limits.Repository = (*LimitStore)(nil)

func NewLimitStore(kv storage.KV) *LimitStore {
	return &LimitStore{c: collection[core.SpendingLimit]{kv: kv, key: storage.KeySpendingLimits}}
}

func (s *LimitStore) List(ctx context.Context) ([]core.SpendingLimit, error) {
	return s.c.all(ctx)
}

func (s *LimitStore) Get(ctx context.Context, id string) (core.SpendingLimit, error) {
	items, err := s.c.all(ctx)
	if err != nil {
		return core.SpendingLimit{}, err
	}
	for _, l := range items {
		if l.ID == id {
			return l, nil
		}
	}
	return core.SpendingLimit{}, fmt.Errorf("%w: %s", limits.ErrLimitNotFound, id)
}

func (s *LimitStore) Put(ctx context.Context, l core.SpendingLimit) error {
	return s.c.modify(ctx, func(items []core.SpendingLimit) ([]core.SpendingLimit, error) {
		if i := slices.IndexFunc(items, func(x core.SpendingLimit) bool { return x.ID == l.ID }); i >= 0 {
			items[i] = l
			return items, nil
		}
		return append(items, l), nil
	})
}

func (s *LimitStore) Delete(ctx context.Context, id string) error {
	return s.c.modify(ctx, func(items []core.SpendingLimit) ([]core.SpendingLimit, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(x core.SpendingLimit) bool { return x.ID == id })
		if len(items) == n {
			return nil, fmt.Errorf("%w: %s", limits.ErrLimitNotFound, id)
		}
		return items, nil
	})
}
