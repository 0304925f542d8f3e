package limits

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
)

func TestGenerateSuggestions_FrequentCategory(t *testing.T) {
	var expenses []core.Expense
	for i := 0; i < 25; i++ {
		// 30 and 50 alternate, averaging 40
		amount := int64(30)
		if i%2 == 1 {
			amount = 50
		}
		if i == 24 {
			amount = 40
		}
		expenses = append(expenses, expense(amount, core.Food, fmt.Sprintf("2024-01-%02d", i+1)))
	}

	got := GenerateSuggestions(expenses, nil)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, core.Food, s.Category)
	assert.Equal(t, core.Weekly, s.SuggestedPeriod)
	assert.Equal(t, core.Units(48), s.SuggestedAmount)
	assert.InDelta(t, 0.8, s.Confidence, 1e-9)
	assert.Equal(t, core.Units(40), s.BasedOn.AverageSpending)
	assert.Equal(t, core.Units(50), s.BasedOn.MaxSpending)
	assert.Equal(t, 25, s.BasedOn.Frequency)
	assert.Equal(t, TrendStable, s.BasedOn.Trend)
	assert.Equal(t, "Based on 25 transactions with average spending of $40.00", s.Reasoning)
}

func TestGenerateSuggestions_ExistingLimits(t *testing.T) {
	expenses := []core.Expense{
		expense(10, core.Food, "2024-01-01"),
		expense(20, core.Transport, "2024-01-02"),
	}

	t.Run("category limit suppresses", func(t *testing.T) {
		got := GenerateSuggestions(expenses, []core.SpendingLimit{limit(core.Food, 100, core.Monthly)})
		require.Len(t, got, 1)
		assert.Equal(t, core.Transport, got[0].Category)
	})

	t.Run("inactive limit still suppresses", func(t *testing.T) {
		l := limit(core.Food, 100, core.Monthly)
		l.IsActive = false
		got := GenerateSuggestions(expenses, []core.SpendingLimit{l})
		require.Len(t, got, 1)
	})

	t.Run("overall limit does not suppress", func(t *testing.T) {
		got := GenerateSuggestions(expenses, []core.SpendingLimit{limit(core.Overall, 100, core.Monthly)})
		assert.Len(t, got, 2)
	})
}

func TestGenerateSuggestions_PeriodAndConfidence(t *testing.T) {
	var expenses []core.Expense
	for i := 0; i < 8; i++ {
		expenses = append(expenses, expense(10, core.Transport, fmt.Sprintf("2024-02-%02d", i+1)))
	}
	expenses = append(expenses, expense(99, core.Health, "2024-02-10"))

	got := GenerateSuggestions(expenses, nil)
	require.Len(t, got, 2)

	assert.Equal(t, core.Transport, got[0].Category)
	assert.Equal(t, core.Monthly, got[0].SuggestedPeriod)
	assert.InDelta(t, 0.64, got[0].Confidence, 1e-9)
	assert.Equal(t, core.Units(12), got[0].SuggestedAmount)

	assert.Equal(t, core.Health, got[1].Category)
	assert.Equal(t, core.Yearly, got[1].SuggestedPeriod)
	assert.InDelta(t, 0.05, got[1].Confidence, 1e-9)
	assert.Equal(t, core.Units(119), got[1].SuggestedAmount)
	assert.Equal(t, TrendStable, got[1].BasedOn.Trend)
}

func TestGenerateSuggestions_TrendFollowsDates(t *testing.T) {
	// inserted newest first; chronologically the amounts rise
	expenses := []core.Expense{
		expense(30, core.Shopping, "2024-04-04"),
		expense(30, core.Shopping, "2024-04-03"),
		expense(10, core.Shopping, "2024-04-02"),
		expense(10, core.Shopping, "2024-04-01"),
	}
	got := GenerateSuggestions(expenses, nil)
	require.Len(t, got, 1)
	assert.Equal(t, TrendIncreasing, got[0].BasedOn.Trend)

	for i, j := 0, len(expenses)-1; i < j; i, j = i+1, j-1 {
		expenses[i].Date, expenses[j].Date = expenses[j].Date, expenses[i].Date
	}
	got = GenerateSuggestions(expenses, nil)
	assert.Equal(t, TrendDecreasing, got[0].BasedOn.Trend)
}

func TestGenerateSuggestions_Empty(t *testing.T) {
	assert.Empty(t, GenerateSuggestions(nil, nil))
}
