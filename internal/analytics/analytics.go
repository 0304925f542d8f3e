package analytics

import (
	"slices"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/period"
)

// Filter returns the expenses matching every supplied criterion. Dates are
// compared as calendar dates; both range bounds are inclusive.
func Filter(expenses []core.Expense, f Filters) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !f.TimeRange.Contains(e.Date) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.Category) {
			continue
		}
		if f.MinAmount != nil && e.Amount.Cents < f.MinAmount.Cents {
			continue
		}
		if f.MaxAmount != nil && e.Amount.Cents > f.MaxAmount.Cents {
			continue
		}
		out = append(out, e)
	}
	return out
}

// DefaultFilters covers the last month across every category.
func DefaultFilters(now time.Time) Filters {
	r, _ := period.Rolling(now, core.PeriodMonth)
	return Filters{TimeRange: r}
}

// Compute builds the analytics snapshot for expenses. now selects the
// calendar month reported as MonthlyExpenses.
func Compute(expenses []core.Expense, now time.Time) Data {
	total := Total(expenses)

	currentMonth := core.DateOf(now).MonthKey()
	var monthly core.Money
	for _, e := range expenses {
		if e.Date.MonthKey() == currentMonth {
			monthly = monthly.Add(e.Amount)
		}
	}

	breakdown := CategoryBreakdown(expenses)
	top := breakdown
	if len(top) > 3 {
		top = top[:3]
	}

	return Data{
		TotalExpenses:        total,
		MonthlyExpenses:      monthly,
		CategoryBreakdown:    breakdown,
		MonthlyTrends:        MonthlyTrends(expenses),
		SpendingPatterns:     SpendingPatterns(expenses),
		AverageDailySpending: average(total, distinctDays(expenses)),
		TopCategories:        slices.Clone(top),
		RecentActivity:       RecentActivity(expenses),
	}
}

// Calculate derives summary figures for current and its growth relative to
// previous. A nil previous means there is no comparable period.
func Calculate(current Data, previous *Data) Calculations {
	count := 0
	for _, c := range current.CategoryBreakdown {
		count += c.Count
	}

	calc := Calculations{
		TotalSpent:        current.TotalExpenses,
		AveragePerDay:     current.AverageDailySpending,
		AveragePerExpense: average(current.TotalExpenses, count),
		CategoryGrowth:    make(map[core.Category]float64, len(current.CategoryBreakdown)),
	}
	if n := len(current.CategoryBreakdown); n > 0 {
		most := current.CategoryBreakdown[0]
		least := current.CategoryBreakdown[n-1]
		calc.MostExpensiveCategory = &most
		calc.LeastExpensiveCategory = &least
	}

	if previous == nil {
		zero := 0.0
		calc.SpendingGrowth = &zero
		for _, c := range current.CategoryBreakdown {
			calc.CategoryGrowth[c.Category] = 0
		}
		return calc
	}

	calc.SpendingGrowth = growth(current.TotalExpenses, previous.TotalExpenses)
	for _, c := range current.CategoryBreakdown {
		calc.CategoryGrowth[c.Category] = 0
		for _, p := range previous.CategoryBreakdown {
			if p.Category != c.Category {
				continue
			}
			if g := growth(c.Amount, p.Amount); g != nil {
				calc.CategoryGrowth[c.Category] = *g
			}
			break
		}
	}
	return calc
}

// Report filters all, computes the snapshot and compares it with the
// equal-length window just before the filter's range. The "all" period has
// no predecessor.
func Report(all []core.Expense, f Filters, now time.Time) (Data, Calculations) {
	current := Compute(Filter(all, f), now)
	if f.TimeRange.Period == core.PeriodAll {
		return current, Calculate(current, nil)
	}

	prevFilters := f
	prevFilters.TimeRange = period.Previous(f.TimeRange)
	previous := Compute(Filter(all, prevFilters), now)
	return current, Calculate(current, &previous)
}

func growth(current, previous core.Money) *float64 {
	if previous.Cents == 0 {
		return nil
	}
	g := float64(current.Cents-previous.Cents) * 100 / float64(previous.Cents)
	return &g
}
