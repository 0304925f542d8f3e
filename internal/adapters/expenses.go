package adapters

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

var ErrExpenseNotFound = errors.New("expense not found")

// NewExpense is the user-authored part of an expense.
type NewExpense struct {
	Amount      core.Money
	Category    core.Category
	Description string
	Date        core.Date
}

// ExpensePatch replaces the non-nil fields of an expense.
type ExpensePatch struct {
	Amount      *core.Money
	Category    *core.Category
	Description *string
	Date        *core.Date
}

// ExpenseStore keeps every expense in a single document under
// storage.KeyExpenses, in insertion order.
type ExpenseStore struct {
	c   collection[core.Expense]
	Now func() time.Time
}

func NewExpenseStore(kv storage.KV) *ExpenseStore {
	return &ExpenseStore{
		c:   collection[core.Expense]{kv: kv, key: storage.KeyExpenses},
		Now: time.Now,
	}
}

func (s *ExpenseStore) List(ctx context.Context) ([]core.Expense, error) {
	items, err := s.c.all(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return items, nil
}

func (s *ExpenseStore) Get(ctx context.Context, id string) (core.Expense, error) {
	items, err := s.List(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	i := slices.IndexFunc(items, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return core.Expense{}, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	return items[i], nil
}

// Create assigns an id and timestamps and appends the expense.
func (s *ExpenseStore) Create(ctx context.Context, in NewExpense) (core.Expense, error) {
	now := s.Now()
	e := core.Expense{
		ID:          uuid.NewString(),
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.c.modify(ctx, func(items []core.Expense) ([]core.Expense, error) {
		return append(items, e), nil
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

// Update applies patch to the expense with id and bumps UpdatedAt.
func (s *ExpenseStore) Update(ctx context.Context, id string, patch ExpensePatch) (core.Expense, error) {
	var updated core.Expense
	err := s.c.modify(ctx, func(items []core.Expense) ([]core.Expense, error) {
		i := slices.IndexFunc(items, func(e core.Expense) bool { return e.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
		}
		e := items[i]
		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}
		if patch.Category != nil {
			e.Category = *patch.Category
		}
		if patch.Description != nil {
			e.Description = *patch.Description
		}
		if patch.Date != nil {
			e.Date = *patch.Date
		}
		e.UpdatedAt = s.Now()
		items[i] = e
		updated = e
		return items, nil
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

func (s *ExpenseStore) Delete(ctx context.Context, id string) error {
	err := s.c.modify(ctx, func(items []core.Expense) ([]core.Expense, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(e core.Expense) bool { return e.ID == id })
		if len(items) == n {
			return nil, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
		}
		return items, nil
	})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
