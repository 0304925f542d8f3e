package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 1, 5), d)
	assert.Equal(t, "2024-01", d.MonthKey())

	d, err = ParseDate("2024-03-09T15:04:05.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", d.String())

	_, err = ParseDate("05/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := NewDate(2024, 2, 29).In(loc)
	assert.Equal(t, 29, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, loc, got.Location())
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Category:    Food,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Date: Date{Time: time.Time{}}, Description: "a", Amount: Money{Cents: 1}, Category: Food}, // zero date
		{Date: NewDate(2025, 1, 1), Description: "", Amount: Money{Cents: 1}, Category: Food},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}, Category: Food},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: ""},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: Overall},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategories(t *testing.T) {
	all := AllCategories()
	require.Len(t, all, 8)
	colors := make(map[string]bool, len(all))
	for _, c := range all {
		assert.True(t, c.Valid(), c)
		assert.NotEqual(t, "Unknown", c.DisplayName())
		colors[c.Color()] = true
	}
	assert.Len(t, colors, len(all), "every category has its own colour")
	assert.Equal(t, "#B2BEC3", Category("travel").Color())
	assert.False(t, Overall.Valid())
	assert.True(t, Overall.ValidForLimit())

	c, err := ParseCategory(" Food ")
	require.NoError(t, err)
	assert.Equal(t, Food, c)
	_, err = ParseCategory("overall")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	c, err = ParseLimitCategory("overall")
	require.NoError(t, err)
	assert.Equal(t, Overall, c)
}

func TestParsePeriods(t *testing.T) {
	p, err := ParseLimitPeriod("Weekly")
	require.NoError(t, err)
	assert.Equal(t, Weekly, p)
	_, err = ParseLimitPeriod("biweekly")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	tp, err := ParseTimePeriod("quarter")
	require.NoError(t, err)
	assert.Equal(t, PeriodQuarter, tp)
}

func TestExpenseJSON(t *testing.T) {
	e := Expense{
		ID:          "e1",
		Amount:      Money{Cents: 4550},
		Category:    Transport,
		Description: "Train ticket",
		Date:        NewDate(2024, 6, 1),
	}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":45.50`)
	assert.Contains(t, string(b), `"date":"2024-06-01"`)

	var back Expense
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, e.Amount, back.Amount)
	assert.True(t, e.Date.Equal(back.Date.Time))
}
