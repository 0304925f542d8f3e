package limits

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
	"spendwise/internal/period"
)

// ComputeStatus sums the expenses that fall in limit's current period window
// and derives its utilization. Expense dates are read as calendar dates in
// now's location. Overall limits count every category.
func ComputeStatus(limit core.SpendingLimit, expenses []core.Expense, now time.Time) Status {
	window, err := period.Window(now, limit.Period)
	if err != nil {
		// unknown period: collapse to the instant itself
		window = period.Range{Start: now, End: now}
	}

	var current core.Money
	for _, e := range expenses {
		if limit.Category != core.Overall && e.Category != limit.Category {
			continue
		}
		if window.Contains(e.Date.In(now.Location())) {
			current = current.Add(e.Amount)
		}
	}

	remaining := limit.Amount.Sub(current)
	if remaining.Cents < 0 {
		remaining = core.Money{}
	}
	var used float64
	if limit.Amount.Cents > 0 {
		used = float64(current.Cents) * 100 / float64(limit.Amount.Cents)
	}
	exceeded := current.Cents > limit.Amount.Cents

	return Status{
		LimitID:         limit.ID,
		Category:        limit.Category,
		LimitAmount:     limit.Amount,
		CurrentAmount:   current,
		RemainingAmount: remaining,
		PercentageUsed:  used,
		IsExceeded:      exceeded,
		IsNearLimit:     used >= NearLimitThreshold && !exceeded,
		Period:          limit.Period,
		PeriodStart:     window.Start,
		PeriodEnd:       window.End,
		LastUpdated:     now,
	}
}

// GenerateAlerts returns at most one alert for status: an exceeded alert
// takes precedence over an approaching one. Every call mints a new alert
// id; callers dedupe.
func GenerateAlerts(status Status, limit core.SpendingLimit, now time.Time) []Alert {
	switch {
	case status.IsExceeded:
		over := status.CurrentAmount.Sub(status.LimitAmount)
		return []Alert{{
			ID:      newAlertID(),
			LimitID: limit.ID,
			Type:    AlertExceeded,
			Title:   "Limit Exceeded",
			Message: fmt.Sprintf("You've exceeded your %s limit for %s by %s",
				limit.Period, status.Category, core.FormatCurrency(over)),
			Severity:       SeverityHigh,
			CreatedAt:      now,
			ActionRequired: true,
			ActionText:     "Review Spending",
		}}
	case status.IsNearLimit:
		return []Alert{{
			ID:      newAlertID(),
			LimitID: limit.ID,
			Type:    AlertApproaching,
			Title:   "Approaching Limit",
			Message: fmt.Sprintf("You're at %.1f%% of your %s limit for %s",
				status.PercentageUsed, limit.Period, status.Category),
			Severity:  SeverityMedium,
			CreatedAt: now,
		}}
	}
	return nil
}

// UnreadCount counts the alerts not yet marked read.
func UnreadCount(alerts []Alert) int {
	n := 0
	for _, a := range alerts {
		if !a.IsRead {
			n++
		}
	}
	return n
}

// Critical keeps the limit_exceeded alerts.
func Critical(alerts []Alert) []Alert {
	var out []Alert
	for _, a := range alerts {
		if a.Type == AlertExceeded {
			out = append(out, a)
		}
	}
	return out
}

func newAlertID() string {
	return "alert_" + uuid.NewString()
}
