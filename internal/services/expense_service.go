package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spendwise/internal/adapters"
	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/limits"
	"spendwise/internal/log"
)

// ExpenseRepository is the expense store the service writes through.
type ExpenseRepository interface {
	List(ctx context.Context) ([]core.Expense, error)
	Get(ctx context.Context, id string) (core.Expense, error)
	Create(ctx context.Context, in adapters.NewExpense) (core.Expense, error)
	Update(ctx context.Context, id string, patch adapters.ExpensePatch) (core.Expense, error)
	Delete(ctx context.Context, id string) error
}

// AlertPublisher forwards limit alerts to other processes.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// ExpenseService validates expense changes, stores them and re-checks the
// spending limits they touch.
type ExpenseService struct {
	expenses  ExpenseRepository
	limits    *limits.Manager
	publisher AlertPublisher
	logger    *log.Logger

	Now func() time.Time
}

// NewExpenseService wires the service. publisher may be nil, in which case
// alerts are only returned to the caller.
func NewExpenseService(expenses ExpenseRepository, lm *limits.Manager, publisher AlertPublisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.Nop()
	}
	return &ExpenseService{
		expenses:  expenses,
		limits:    lm,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
		Now:       time.Now,
	}
}

// CreateExpense validates form, stores the expense and returns any limit
// alerts it raised.
func (s *ExpenseService) CreateExpense(ctx context.Context, form ExpenseForm) (core.Expense, []limits.Alert, error) {
	in, err := ValidateExpense(form, s.Now())
	if err != nil {
		s.logger.WarnContext(ctx, "Expense rejected",
			log.FieldOperation, log.OpValidate,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldError, err)
		return core.Expense{}, nil, err
	}

	e, err := s.expenses.Create(ctx, in)
	if err != nil {
		return core.Expense{}, nil, fmt.Errorf("save expense: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense saved",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithExpense(e.ID, e.Description, e.Amount.Cents, string(e.Category)).
			ToSlice()...)

	return e, s.checkLimits(ctx, e.Category), nil
}

// UpdateExpense applies patch after validating the merged expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, patch adapters.ExpensePatch) (core.Expense, []limits.Alert, error) {
	current, err := s.expenses.Get(ctx, id)
	if err != nil {
		return core.Expense{}, nil, err
	}

	merged := adapters.NewExpense{
		Amount:      current.Amount,
		Category:    current.Category,
		Description: current.Description,
		Date:        current.Date,
	}
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
		merged.Description = trimmed
	}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if errs := checkExpense(merged, s.Now(), nil); len(errs) > 0 {
		return core.Expense{}, nil, errs
	}

	e, err := s.expenses.Update(ctx, id, patch)
	if err != nil {
		return core.Expense{}, nil, err
	}
	s.logger.InfoContext(ctx, "Expense updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldExpenseID, e.ID,
		log.FieldAmountCents, e.Amount.Cents)

	return e, s.checkLimits(ctx, e.Category), nil
}

// DeleteExpense removes the expense with id.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.expenses.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	return nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.expenses.List(ctx)
}

func (s *ExpenseService) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	return s.expenses.Get(ctx, id)
}

// checkLimits recomputes the active limits covering c and publishes their
// alerts. Failures here never fail the write that triggered them.
func (s *ExpenseService) checkLimits(ctx context.Context, c core.Category) []limits.Alert {
	if s.limits == nil {
		return nil
	}
	ls, err := s.limits.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load limits", log.FieldError, err)
		return nil
	}
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load expenses", log.FieldError, err)
		return nil
	}

	now := s.Now()
	var raised []limits.Alert
	for _, l := range ls {
		if !l.IsActive || (l.Category != c && l.Category != core.Overall) {
			continue
		}
		status := limits.ComputeStatus(l, expenses, now)
		for _, a := range limits.GenerateAlerts(status, l, now) {
			raised = append(raised, a)
			s.publish(ctx, a, status)
		}
	}
	return raised
}

func (s *ExpenseService) publish(ctx context.Context, a limits.Alert, status limits.Status) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP client not available, skipping alert message", log.FieldAlertID, a.ID)
		return
	}
	if err := s.publisher.PublishAlert(ctx, amqp.NewAlertMessage(a, status)); err != nil {
		fields := log.NewFields().WithOperation(log.OpPublish).WithError(err)
		fields[log.FieldAlertID] = a.ID
		fields[log.FieldLimitID] = a.LimitID
		s.logger.ErrorContext(ctx, "Failed to publish alert message", fields.ToSlice()...)
	}
}
