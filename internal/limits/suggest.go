package limits

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"spendwise/internal/core"
)

// Frequency thresholds used to pick the suggested period.
const (
	weeklyAbove = 20
	yearlyBelow = 5
)

// GenerateSuggestions proposes a limit for every category in expenses that
// no existing limit targets. Overall limits do not suppress per-category
// suggestions. The result is ordered by confidence, highest first.
func GenerateSuggestions(expenses []core.Expense, existing []core.SpendingLimit) []Suggestion {
	covered := make(map[core.Category]bool, len(existing))
	for _, l := range existing {
		covered[l.Category] = true
	}

	var order []core.Category
	byCategory := make(map[core.Category][]core.Expense)
	for _, e := range expenses {
		if covered[e.Category] {
			continue
		}
		if _, ok := byCategory[e.Category]; !ok {
			order = append(order, e.Category)
		}
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	out := make([]Suggestion, 0, len(order))
	for _, c := range order {
		out = append(out, suggest(c, byCategory[c]))
	}
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return out
}

func suggest(c core.Category, expenses []core.Expense) Suggestion {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b core.Expense) int {
		return a.Date.Compare(b.Date.Time)
	})

	amounts := make([]int64, len(sorted))
	var sum, maxCents int64
	for i, e := range sorted {
		amounts[i] = e.Amount.Cents
		sum += e.Amount.Cents
		maxCents = max(maxCents, e.Amount.Cents)
	}
	n := len(amounts)
	avg := float64(sum) / float64(n)

	p := core.Monthly
	switch {
	case n > weeklyAbove:
		p = core.Weekly
	case n < yearlyBelow:
		p = core.Yearly
	}

	quality := 0.5
	if n > 1 {
		quality = 0.8
	}

	average := core.Money{Cents: int64(math.Round(avg))}
	return Suggestion{
		Category:        c,
		SuggestedAmount: core.Units(int64(math.Round(avg * 1.2 / 100))),
		SuggestedPeriod: p,
		Confidence:      math.Min(1, float64(n)/10) * quality,
		Reasoning: fmt.Sprintf("Based on %d transactions with average spending of %s",
			n, core.FormatCurrency(average)),
		BasedOn: SuggestionBasis{
			AverageSpending: average,
			MaxSpending:     core.Money{Cents: maxCents},
			Frequency:       n,
			Trend:           trend(amounts),
		},
	}
}

// trend compares the mean of the later half of amounts with the earlier
// half. A change beyond 10% either way is a trend.
func trend(amounts []int64) Trend {
	half := len(amounts) / 2
	if half == 0 {
		return TrendStable
	}
	first, second := mean(amounts[:half]), mean(amounts[half:])
	switch {
	case second > first*1.1:
		return TrendIncreasing
	case second < first*0.9:
		return TrendDecreasing
	}
	return TrendStable
}

func mean(xs []int64) float64 {
	var s int64
	for _, x := range xs {
		s += x
	}
	return float64(s) / float64(len(xs))
}
