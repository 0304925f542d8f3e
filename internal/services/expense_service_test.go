package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/adapters"
	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/limits"
	"spendwise/internal/log"
	"spendwise/internal/storage/memory"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.AlertMessage
	err  error
}

func (p *recordingPublisher) PublishAlert(_ context.Context, msg *amqp.AlertMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

type fixture struct {
	svc      *ExpenseService
	store    *adapters.ExpenseStore
	limits   *limits.Manager
	pub      *recordingPublisher
	clock    func() time.Time
	foodCap  core.SpendingLimit
	totalCap core.SpendingLimit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := memory.New()
	clock := func() time.Time { return noon }

	store := adapters.NewExpenseStore(kv)
	store.Now = clock
	lm := limits.NewManager(adapters.NewLimitStore(kv), nil)
	lm.Now = clock

	ctx := context.Background()
	food, err := lm.Create(ctx, limits.CreateRequest{Category: core.Food, Amount: core.Units(100), Period: core.Monthly})
	require.NoError(t, err)
	total, err := lm.Create(ctx, limits.CreateRequest{Category: core.Overall, Amount: core.Units(1000), Period: core.Monthly})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	svc := NewExpenseService(store, lm, pub, nil)
	svc.Now = clock

	return &fixture{svc: svc, store: store, limits: lm, pub: pub, clock: clock, foodCap: food, totalCap: total}
}

func TestCreateExpense_StoresAndStaysQuietUnderLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, alerts, err := f.svc.CreateExpense(ctx, ExpenseForm{Amount: "20", Category: "food", Description: "Groceries", Date: "2024-03-10"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Empty(t, alerts)
	assert.Empty(t, f.pub.msgs)

	all, err := f.svc.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateExpense_PublishesApproachingAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, alerts, err := f.svc.CreateExpense(ctx, ExpenseForm{Amount: "85", Category: "food", Description: "Big shop", Date: "2024-03-10"})
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, limits.AlertApproaching, alerts[0].Type)
	assert.Equal(t, f.foodCap.ID, alerts[0].LimitID)

	require.Len(t, f.pub.msgs, 1)
	msg := f.pub.msgs[0]
	assert.Equal(t, alerts[0].ID, msg.AlertID)
	assert.Equal(t, "food", msg.Category)
	assert.Equal(t, int64(8500), msg.CurrentCents)
	assert.Equal(t, int64(10000), msg.LimitCents)
}

func TestCreateExpense_OverallLimitSeesEveryCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, alerts, err := f.svc.CreateExpense(ctx, ExpenseForm{Amount: "1200", Category: "shopping", Description: "Laptop", Date: "2024-03-01"})
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, limits.AlertExceeded, alerts[0].Type)
	assert.Equal(t, f.totalCap.ID, alerts[0].LimitID)
}

func TestCreateExpense_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.pub.err = amqp.ErrCircuitOpen
	logger := log.New(log.Config{Enabled: true, Level: slog.LevelInfo, MaxEntries: 20, Output: io.Discard})
	f.svc = NewExpenseService(f.store, f.limits, f.pub, logger)
	f.svc.Now = f.clock
	ctx := context.Background()

	e, alerts, err := f.svc.CreateExpense(ctx, ExpenseForm{Amount: "150", Category: "food", Description: "Party", Date: "2024-03-12"})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	_, err = f.store.Get(ctx, e.ID)
	assert.NoError(t, err)

	failed := logger.Buffer().Search("Failed to publish")
	require.Len(t, failed, 1)
	assert.Equal(t, slog.LevelError, failed[0].Level)
	assert.Equal(t, log.ComponentExpense, failed[0].Component)
	assert.Equal(t, "circuit breaker is open", failed[0].Attrs[log.FieldError])
	assert.Equal(t, log.OpPublish, failed[0].Attrs[log.FieldOperation])
	assert.Equal(t, alerts[0].ID, failed[0].Attrs[log.FieldAlertID])
}

func TestCreateExpense_WithoutPublisherOrLimits(t *testing.T) {
	store := adapters.NewExpenseStore(memory.New())
	svc := NewExpenseService(store, nil, nil, nil)
	svc.Now = func() time.Time { return noon }

	_, alerts, err := svc.CreateExpense(context.Background(), validForm())
	require.NoError(t, err)
	assert.Nil(t, alerts)
}

func TestCreateExpense_InvalidFormNotStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateExpense(ctx, ExpenseForm{Amount: "x", Category: "food", Description: "Lunch", Date: "2024-03-10"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("amount"))

	all, err := f.svc.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, _, err := f.svc.CreateExpense(ctx, validForm())
	require.NoError(t, err)

	amount := core.Units(90)
	desc := "  Team lunch "
	up, alerts, err := f.svc.UpdateExpense(ctx, e.ID, adapters.ExpensePatch{Amount: &amount, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Team lunch", up.Description)
	assert.Equal(t, amount, up.Amount)
	assert.Equal(t, core.Food, up.Category)
	require.Len(t, alerts, 1)
	assert.Equal(t, limits.AlertApproaching, alerts[0].Type)
}

func TestUpdateExpense_RejectsInvalidMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, _, err := f.svc.CreateExpense(ctx, validForm())
	require.NoError(t, err)

	future := core.NewDate(2024, 4, 1)
	_, _, err = f.svc.UpdateExpense(ctx, e.ID, adapters.ExpensePatch{Date: &future})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("date"))

	got, err := f.svc.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got.Date.String())
}

func TestUpdateExpense_Unknown(t *testing.T) {
	f := newFixture(t)
	desc := "whatever"
	_, _, err := f.svc.UpdateExpense(context.Background(), "missing", adapters.ExpensePatch{Description: &desc})
	assert.ErrorIs(t, err, adapters.ErrExpenseNotFound)
}

func TestDeleteExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, _, err := f.svc.CreateExpense(ctx, validForm())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteExpense(ctx, e.ID))
	assert.ErrorIs(t, f.svc.DeleteExpense(ctx, e.ID), adapters.ErrExpenseNotFound)
}

func TestCreateExpense_InactiveLimitIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.limits.ToggleActive(ctx, f.foodCap.ID)
	require.NoError(t, err)

	_, alerts, err := f.svc.CreateExpense(ctx, ExpenseForm{Amount: "99", Category: "food", Description: "Dinner", Date: "2024-03-14"})
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
