package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/limits"
	"spendwise/internal/log"
)

type ExpenseLister interface {
	List(ctx context.Context) ([]core.Expense, error)
}

type LimitLister interface {
	List(ctx context.Context) ([]core.SpendingLimit, error)
}

// AlertWorker writes limit alerts to a sink as they arrive from AMQP.
// Redelivered messages with an already seen alert id are dropped.
type AlertWorker struct {
	sink     io.Writer
	asJSON   bool
	expenses ExpenseLister
	limits   LimitLister
	logger   *log.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewAlertWorker(sink io.Writer, asJSON bool, expenses ExpenseLister, ls LimitLister, logger *log.Logger) *AlertWorker {
	if logger == nil {
		logger = log.Nop()
	}
	return &AlertWorker{
		sink:     sink,
		asJSON:   asJSON,
		expenses: expenses,
		limits:   ls,
		logger:   logger.WithComponent(log.ComponentAMQP),
		seen:     make(map[string]struct{}),
	}
}

// HandleAlertMessage processes a single alert message from AMQP
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.AlertMessage) error {
	if !w.markSeen(msg.AlertID) {
		w.logger.DebugContext(ctx, "Skipping duplicate alert message", log.FieldAlertID, msg.AlertID)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing alert message",
		log.FieldOperation, log.OpConsume,
		log.FieldAlertID, msg.AlertID,
		log.FieldLimitID, msg.LimitID,
		log.FieldAlertType, string(msg.Type))

	if err := w.write(msg); err != nil {
		w.forget(msg.AlertID)
		return fmt.Errorf("write alert: %w", err)
	}
	return nil
}

// StartupCheck writes the alerts current spending already raises, so a
// listener that was down when they were published still shows them.
func (w *AlertWorker) StartupCheck(ctx context.Context, now time.Time) (int, error) {
	ls, err := w.limits.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load limits for startup check: %w", err)
	}
	expenses, err := w.expenses.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load expenses for startup check: %w", err)
	}

	count := 0
	for _, l := range ls {
		if !l.IsActive {
			continue
		}
		status := limits.ComputeStatus(l, expenses, now)
		for _, a := range limits.GenerateAlerts(status, l, now) {
			if err := w.HandleAlertMessage(ctx, amqp.NewAlertMessage(a, status)); err != nil {
				return count, err
			}
			count++
		}
	}

	w.logger.InfoContext(ctx, "Startup alert check completed", log.FieldCount, count)
	return count, nil
}

func (w *AlertWorker) write(msg *amqp.AlertMessage) error {
	if w.asJSON {
		b, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w.sink, string(b))
		return err
	}
	_, err := fmt.Fprintf(w.sink, "%s [%s] %s: %s\n",
		msg.Timestamp.Format(time.RFC3339), msg.Severity, msg.Title, msg.Message)
	return err
}

func (w *AlertWorker) markSeen(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.seen[id]; ok {
		return false
	}
	w.seen[id] = struct{}{}
	return true
}

func (w *AlertWorker) forget(id string) {
	w.mu.Lock()
	delete(w.seen, id)
	w.mu.Unlock()
}
