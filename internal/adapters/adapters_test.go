package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
	"spendwise/internal/limits"
	"spendwise/internal/storage"
	"spendwise/internal/storage/memory"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestExpenseStore_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewExpenseStore(memory.New())
	created := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	s.Now = fixedClock(created)

	in := NewExpense{
		Amount:      core.Money{Cents: 1250},
		Category:    core.Food,
		Description: "Lunch",
		Date:        core.NewDate(2024, 1, 5),
	}
	e, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Amount, got.Amount)
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, in.Description, got.Description)
	assert.True(t, in.Date.Equal(got.Date.Time))
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestExpenseStore_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := NewExpenseStore(kv)
	s.Now = fixedClock(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC))

	a, err := s.Create(ctx, NewExpense{Amount: core.Units(10), Category: core.Food, Description: "one", Date: core.NewDate(2024, 1, 5)})
	require.NoError(t, err)
	b, err := s.Create(ctx, NewExpense{Amount: core.Units(20), Category: core.Health, Description: "two", Date: core.NewDate(2024, 1, 6)})
	require.NoError(t, err)

	later := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
	s.Now = fixedClock(later)
	desc := "one, edited"
	cat := core.Shopping
	up, err := s.Update(ctx, a.ID, ExpensePatch{Description: &desc, Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, desc, up.Description)
	assert.Equal(t, core.Shopping, up.Category)
	assert.Equal(t, a.Amount, up.Amount)
	assert.Equal(t, later, up.UpdatedAt)
	assert.True(t, up.UpdatedAt.After(up.CreatedAt))

	_, err = s.Update(ctx, "missing", ExpensePatch{Description: &desc})
	assert.ErrorIs(t, err, ErrExpenseNotFound)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrExpenseNotFound)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestExpenseStore_EmptyList(t *testing.T) {
	s := NewExpenseStore(memory.New())
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

type brokenKV struct{ storage.KV }

func (brokenKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk unavailable")
}

func TestExpenseStore_StorageErrorPropagates(t *testing.T) {
	s := NewExpenseStore(brokenKV{memory.New()})
	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk unavailable")
}

func TestLimitStore(t *testing.T) {
	ctx := context.Background()
	s := NewLimitStore(memory.New())

	l := core.SpendingLimit{ID: "l1", Category: core.Food, Amount: core.Units(100), Period: core.Monthly, IsActive: true}
	require.NoError(t, s.Put(ctx, l))

	l.Amount = core.Units(200)
	require.NoError(t, s.Put(ctx, l))
	got, err := s.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, core.Units(200), got.Amount)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Delete(ctx, "l1"))
	assert.ErrorIs(t, s.Delete(ctx, "l1"), limits.ErrLimitNotFound)
	_, err = s.Get(ctx, "l1")
	assert.ErrorIs(t, err, limits.ErrLimitNotFound)
}

func TestLimitStore_WithManager(t *testing.T) {
	ctx := context.Background()
	m := limits.NewManager(NewLimitStore(memory.New()), nil)

	created, err := m.Create(ctx, limits.CreateRequest{Category: core.Overall, Amount: core.Units(500), Period: core.Yearly})
	require.NoError(t, err)

	got, err := m.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}
