package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"spendwise/internal/core"
)

// SortOption orders an expense list.
type SortOption string

const (
	SortDateAsc    SortOption = "date-asc"
	SortDateDesc   SortOption = "date-desc"
	SortAmountAsc  SortOption = "amount-asc"
	SortAmountDesc SortOption = "amount-desc"
	SortCategory   SortOption = "category"
)

// ParseSortOption validates a sort option name.
func ParseSortOption(s string) (SortOption, error) {
	switch o := SortOption(strings.ToLower(strings.TrimSpace(s))); o {
	case SortDateAsc, SortDateDesc, SortAmountAsc, SortAmountDesc, SortCategory:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort option %q", s)
}

// Sort returns a sorted copy of expenses. An unknown option returns the copy
// unchanged.
func Sort(expenses []core.Expense, by SortOption) []core.Expense {
	sorted := slices.Clone(expenses)
	var fn func(a, b core.Expense) int
	switch by {
	case SortDateAsc:
		fn = func(a, b core.Expense) int { return a.Date.Compare(b.Date.Time) }
	case SortDateDesc:
		fn = func(a, b core.Expense) int { return b.Date.Compare(a.Date.Time) }
	case SortAmountAsc:
		fn = func(a, b core.Expense) int { return cmp.Compare(a.Amount.Cents, b.Amount.Cents) }
	case SortAmountDesc:
		fn = func(a, b core.Expense) int { return cmp.Compare(b.Amount.Cents, a.Amount.Cents) }
	case SortCategory:
		fn = func(a, b core.Expense) int { return strings.Compare(string(a.Category), string(b.Category)) }
	default:
		return sorted
	}
	slices.SortStableFunc(sorted, fn)
	return sorted
}

// ByCategory keeps the expenses of one category. The empty category keeps
// everything.
func ByCategory(expenses []core.Expense, c core.Category) []core.Expense {
	if c == "" {
		return slices.Clone(expenses)
	}
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// FormatPercentage renders a percentage with one decimal, e.g. "42.5%".
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
