package limits

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
	"spendwise/internal/log"
)

// Repository persists spending limits. Get and Delete return an error
// wrapping ErrLimitNotFound for an unknown id. Put inserts or replaces by id.
type Repository interface {
	List(ctx context.Context) ([]core.SpendingLimit, error)
	Get(ctx context.Context, id string) (core.SpendingLimit, error)
	Put(ctx context.Context, l core.SpendingLimit) error
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Category core.Category
	Amount   core.Money
	Period   core.LimitPeriod
}

// UpdateRequest carries the fields to replace; nil fields are kept.
type UpdateRequest struct {
	Amount   *core.Money
	Period   *core.LimitPeriod
	IsActive *bool
}

// Manager validates limit changes before they reach the repository and
// derives statuses and alerts from the stored limits.
type Manager struct {
	repo   Repository
	logger *log.Logger

	// Now is the clock; tests replace it.
	Now func() time.Time
}

func NewManager(repo Repository, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Nop()
	}
	return &Manager{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentLimits),
		Now:    time.Now,
	}
}

// Create stores a new active limit authored by the user.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (core.SpendingLimit, error) {
	now := m.Now()
	l := core.SpendingLimit{
		ID:        "limit_" + uuid.NewString(),
		Category:  req.Category,
		Amount:    req.Amount,
		Period:    req.Period,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: core.CreatedByUser,
	}
	if err := m.check(l); err != nil {
		return core.SpendingLimit{}, err
	}
	if err := m.repo.Put(ctx, l); err != nil {
		return core.SpendingLimit{}, fmt.Errorf("create limit: %w", err)
	}
	m.logger.InfoContext(ctx, "Limit created", limitFields(l).WithOperation(log.OpCreate).ToSlice()...)
	return l, nil
}

// Update merges req onto the stored limit and re-validates the result.
func (m *Manager) Update(ctx context.Context, id string, req UpdateRequest) (core.SpendingLimit, error) {
	l, err := m.repo.Get(ctx, id)
	if err != nil {
		return core.SpendingLimit{}, fmt.Errorf("update limit %s: %w", id, err)
	}
	if req.Amount != nil {
		l.Amount = *req.Amount
	}
	if req.Period != nil {
		l.Period = *req.Period
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	l.UpdatedAt = m.Now()

	if err := m.check(l); err != nil {
		return core.SpendingLimit{}, err
	}
	if err := m.repo.Put(ctx, l); err != nil {
		return core.SpendingLimit{}, fmt.Errorf("update limit %s: %w", id, err)
	}
	fields := limitFields(l).WithOperation(log.OpUpdate)
	fields[log.FieldActive] = l.IsActive
	m.logger.InfoContext(ctx, "Limit updated", fields.ToSlice()...)
	return l, nil
}

// ToggleActive flips IsActive on the limit.
func (m *Manager) ToggleActive(ctx context.Context, id string) (core.SpendingLimit, error) {
	l, err := m.repo.Get(ctx, id)
	if err != nil {
		return core.SpendingLimit{}, fmt.Errorf("toggle limit %s: %w", id, err)
	}
	active := !l.IsActive
	return m.Update(ctx, id, UpdateRequest{IsActive: &active})
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete limit %s: %w", id, err)
	}
	m.logger.InfoContext(ctx, "Limit deleted", log.FieldOperation, log.OpDelete, log.FieldLimitID, id)
	return nil
}

func (m *Manager) List(ctx context.Context) ([]core.SpendingLimit, error) {
	ls, err := m.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list limits: %w", err)
	}
	return ls, nil
}

func (m *Manager) Get(ctx context.Context, id string) (core.SpendingLimit, error) {
	l, err := m.repo.Get(ctx, id)
	if err != nil {
		return core.SpendingLimit{}, fmt.Errorf("get limit %s: %w", id, err)
	}
	return l, nil
}

// ByCategory returns the first active limit for c.
func (m *Manager) ByCategory(ctx context.Context, c core.Category) (core.SpendingLimit, error) {
	ls, err := m.List(ctx)
	if err != nil {
		return core.SpendingLimit{}, err
	}
	for _, l := range ls {
		if l.Category == c && l.IsActive {
			return l, nil
		}
	}
	return core.SpendingLimit{}, fmt.Errorf("%w: no active limit for %s", ErrLimitNotFound, c)
}

// StatusByCategory computes the status of the active limit for c.
func (m *Manager) StatusByCategory(ctx context.Context, c core.Category, expenses []core.Expense) (Status, error) {
	l, err := m.ByCategory(ctx, c)
	if err != nil {
		return Status{}, err
	}
	return ComputeStatus(l, expenses, m.Now()), nil
}

// Statuses computes the status of every active limit, in storage order.
func (m *Manager) Statuses(ctx context.Context, expenses []core.Expense) ([]Status, error) {
	ls, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	return statuses(ls, expenses, m.Now()), nil
}

// Alerts generates the alerts of every active limit, newest first.
func (m *Manager) Alerts(ctx context.Context, expenses []core.Expense) ([]Alert, error) {
	ls, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	return alerts(ls, expenses, m.Now()), nil
}

// CriticalAlerts keeps the exceeded alerts of Alerts.
func (m *Manager) CriticalAlerts(ctx context.Context, expenses []core.Expense) ([]Alert, error) {
	as, err := m.Alerts(ctx, expenses)
	if err != nil {
		return nil, err
	}
	return Critical(as), nil
}

// Suggestions proposes limits for categories no stored limit covers.
func (m *Manager) Suggestions(ctx context.Context, expenses []core.Expense) ([]Suggestion, error) {
	ls, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	return GenerateSuggestions(expenses, ls), nil
}

// Analytics aggregates the stored limits with their current statuses.
func (m *Manager) Analytics(ctx context.Context, expenses []core.Expense) (Analytics, error) {
	ls, err := m.List(ctx)
	if err != nil {
		return Analytics{}, err
	}
	return Aggregate(ls, statuses(ls, expenses, m.Now())), nil
}

func limitFields(l core.SpendingLimit) log.LogFields {
	return log.NewFields().WithLimit(l.ID, string(l.Category), string(l.Period), l.Amount.Cents)
}

func (m *Manager) check(l core.SpendingLimit) error {
	v := Validate(DraftOf(l))
	for _, w := range v.Warnings {
		m.logger.Warn("Limit validation warning", log.FieldLimitID, l.ID, log.FieldWarning, w)
	}
	if !v.IsValid {
		m.logger.Warn("Limit rejected",
			log.FieldOperation, log.OpValidate,
			log.FieldLimitID, l.ID,
			log.FieldErrorType, log.ErrorTypeValidation)
		return &ValidationError{Errors: v.Errors}
	}
	return nil
}

func statuses(ls []core.SpendingLimit, expenses []core.Expense, now time.Time) []Status {
	out := make([]Status, 0, len(ls))
	for _, l := range ls {
		if l.IsActive {
			out = append(out, ComputeStatus(l, expenses, now))
		}
	}
	return out
}

func alerts(ls []core.SpendingLimit, expenses []core.Expense, now time.Time) []Alert {
	var out []Alert
	for _, l := range ls {
		if !l.IsActive {
			continue
		}
		out = append(out, GenerateAlerts(ComputeStatus(l, expenses, now), l, now)...)
	}
	slices.SortStableFunc(out, func(a, b Alert) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}

// IsValidation reports whether err carries limit validation messages.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
