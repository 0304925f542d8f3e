package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
	"spendwise/internal/limits"
)

type ExpenseLister interface {
	List(ctx context.Context) ([]core.Expense, error)
}

type LimitLister interface {
	List(ctx context.Context) ([]core.SpendingLimit, error)
}

// Snapshot is everything the overview screen shows, computed from one
// consistent read of the store.
type Snapshot struct {
	Analytics      analytics.Data               `json:"analytics"`
	Calculations   analytics.Calculations       `json:"calculations"`
	// CategoryTotals covers every category in the filtered set, zero when unused.
	CategoryTotals map[core.Category]core.Money `json:"categoryTotals"`
	Statuses       []limits.Status              `json:"statuses"`
	Alerts         []limits.Alert               `json:"alerts"`
	UnreadAlerts   int                          `json:"unreadAlerts"`
	Limits         limits.Analytics             `json:"limits"`
	Suggestions    []limits.Suggestion          `json:"suggestions"`
	GeneratedAt    time.Time                    `json:"generatedAt"`
}

type Dashboard struct {
	expenses ExpenseLister
	limits   LimitLister
}

func NewDashboard(expenses ExpenseLister, ls LimitLister) *Dashboard {
	return &Dashboard{expenses: expenses, limits: ls}
}

// Snapshot loads expenses and limits concurrently and derives analytics
// and limit state for f at now.
func (d *Dashboard) Snapshot(ctx context.Context, f analytics.Filters, now time.Time) (Snapshot, error) {
	var (
		expenses []core.Expense
		ls       []core.SpendingLimit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = d.expenses.List(gctx)
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ls, err = d.limits.List(gctx)
		if err != nil {
			return fmt.Errorf("load limits: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	data, calc := analytics.Report(expenses, f, now)
	s := Snapshot{
		Analytics:      data,
		Calculations:   calc,
		CategoryTotals: analytics.CategoryTotals(analytics.Filter(expenses, f)),
		Statuses:       []limits.Status{},
		Alerts:         []limits.Alert{},
		Suggestions:    limits.GenerateSuggestions(expenses, ls),
		GeneratedAt:    now,
	}
	for _, l := range ls {
		if !l.IsActive {
			continue
		}
		status := limits.ComputeStatus(l, expenses, now)
		s.Statuses = append(s.Statuses, status)
		s.Alerts = append(s.Alerts, limits.GenerateAlerts(status, l, now)...)
	}
	s.UnreadAlerts = limits.UnreadCount(s.Alerts)
	s.Limits = limits.Aggregate(ls, s.Statuses)
	return s, nil
}
