package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"spendwise/internal/core"
)

// bucket accumulates a sum and count. Buckets are kept in first-seen order
// so that equal keys sort the same way on every run.
type bucket[K comparable] struct {
	key    K
	amount core.Money
	count  int
}

type buckets[K comparable] struct {
	index map[K]int
	items []bucket[K]
}

func newBuckets[K comparable]() *buckets[K] {
	return &buckets[K]{index: make(map[K]int)}
}

func (b *buckets[K]) add(key K, amount core.Money) {
	i, ok := b.index[key]
	if !ok {
		i = len(b.items)
		b.index[key] = i
		b.items = append(b.items, bucket[K]{key: key})
	}
	b.items[i].amount = b.items[i].amount.Add(amount)
	b.items[i].count++
}

// Total sums the amounts of expenses.
func Total(expenses []core.Expense) core.Money {
	var total core.Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryBreakdown groups expenses by category, sorted by amount descending.
// Categories with no expenses are omitted.
func CategoryBreakdown(expenses []core.Expense) []CategoryShare {
	total := Total(expenses)
	groups := newBuckets[core.Category]()
	for _, e := range expenses {
		groups.add(e.Category, e.Amount)
	}

	out := make([]CategoryShare, 0, len(groups.items))
	for _, g := range groups.items {
		out = append(out, CategoryShare{
			Category:      g.key,
			Amount:        g.amount,
			Percentage:    percentage(g.amount, total),
			Count:         g.count,
			AverageAmount: average(g.amount, g.count),
			Color:         g.key.Color(),
		})
	}
	slices.SortStableFunc(out, func(a, b CategoryShare) int {
		return cmp.Compare(b.Amount.Cents, a.Amount.Cents)
	})
	return out
}

// MonthlyTrends groups expenses by YYYY-MM, sorted chronologically.
func MonthlyTrends(expenses []core.Expense) []MonthlyTrend {
	var keys []string
	byMonth := make(map[string][]core.Expense)
	for _, e := range expenses {
		k := e.Date.MonthKey()
		if _, ok := byMonth[k]; !ok {
			keys = append(keys, k)
		}
		byMonth[k] = append(byMonth[k], e)
	}
	slices.Sort(keys)

	out := make([]MonthlyTrend, 0, len(keys))
	for _, k := range keys {
		month := byMonth[k]
		first := month[0].Date
		total := Total(month)
		out = append(out, MonthlyTrend{
			Month:         k,
			Year:          first.Year(),
			MonthName:     first.Month().String()[:3],
			TotalAmount:   total,
			ExpenseCount:  len(month),
			AverageAmount: average(total, len(month)),
			Categories:    CategoryBreakdown(month),
		})
	}
	return out
}

// SpendingPatterns groups expenses by weekday name, sorted by average amount
// descending.
func SpendingPatterns(expenses []core.Expense) []SpendingPattern {
	total := Total(expenses)
	groups := newBuckets[time.Weekday]()
	for _, e := range expenses {
		groups.add(e.Date.Weekday(), e.Amount)
	}

	out := make([]SpendingPattern, 0, len(groups.items))
	for _, g := range groups.items {
		out = append(out, SpendingPattern{
			DayOfWeek:     g.key.String(),
			AverageAmount: average(g.amount, g.count),
			Count:         g.count,
			Percentage:    percentage(g.amount, total),
		})
	}
	slices.SortStableFunc(out, func(a, b SpendingPattern) int {
		return cmp.Compare(b.AverageAmount.Cents, a.AverageAmount.Cents)
	})
	return out
}

// RecentActivity returns the most recently created expenses, newest first.
// An expense modified after creation is reported as an update.
func RecentActivity(expenses []core.Expense) []Activity {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b core.Expense) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > RecentActivityLimit {
		sorted = sorted[:RecentActivityLimit]
	}

	out := make([]Activity, 0, len(sorted))
	for _, e := range sorted {
		a := Activity{
			ID:          "activity_" + e.ID,
			Type:        ActivityExpenseAdded,
			Description: fmt.Sprintf("Added expense: %s", e.Description),
			Amount:      e.Amount,
			Category:    e.Category,
			Timestamp:   e.CreatedAt,
		}
		if e.UpdatedAt.After(e.CreatedAt) {
			a.Type = ActivityExpenseUpdated
			a.Description = fmt.Sprintf("Updated expense: %s", e.Description)
			a.Timestamp = e.UpdatedAt
		}
		out = append(out, a)
	}
	return out
}

// CategoryTotals sums expenses per category. Every category is present in
// the result, zero when unused.
func CategoryTotals(expenses []core.Expense) map[core.Category]core.Money {
	totals := make(map[core.Category]core.Money, len(core.AllCategories()))
	for _, c := range core.AllCategories() {
		totals[c] = core.Money{}
	}
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// distinctDays counts the calendar dates that carry at least one expense.
func distinctDays(expenses []core.Expense) int {
	days := make(map[string]struct{}, len(expenses))
	for _, e := range expenses {
		days[e.Date.String()] = struct{}{}
	}
	return len(days)
}

func percentage(part, total core.Money) float64 {
	if total.Cents <= 0 {
		return 0
	}
	return float64(part.Cents) * 100 / float64(total.Cents)
}

func average(sum core.Money, n int) core.Money {
	if n <= 0 {
		return core.Money{}
	}
	return core.Money{Cents: int64(math.Round(float64(sum.Cents) / float64(n)))}
}
