// Package analytics turns a list of expenses into spending statistics:
// category breakdowns, monthly trends, weekday patterns, recent activity and
// period-over-period growth.
//
// Every function is a pure transformation of its inputs. Nothing here reads
// the clock; callers pass "now" explicitly.
package analytics

import (
	"time"

	"spendwise/internal/core"
	"spendwise/internal/period"
)

// ActivityType tags a recent activity entry.
type ActivityType string

const (
	ActivityExpenseAdded   ActivityType = "expense_added"
	ActivityExpenseUpdated ActivityType = "expense_updated"
	ActivityExpenseDeleted ActivityType = "expense_deleted"
	ActivityLimitSet       ActivityType = "limit_set"
	ActivityLimitExceeded  ActivityType = "limit_exceeded"
)

// RecentActivityLimit caps the number of entries in Data.RecentActivity.
const RecentActivityLimit = 10

// Filters selects the subset of expenses an analytics query covers. Empty
// Categories means every category; nil amount bounds are not applied.
type Filters struct {
	TimeRange  period.DateRange `json:"timeRange"`
	Categories []core.Category  `json:"categories"`
	MinAmount  *core.Money      `json:"minAmount,omitempty"`
	MaxAmount  *core.Money      `json:"maxAmount,omitempty"`
}

// CategoryShare is one category's slice of a set of expenses. Color is the
// category's chart colour.
type CategoryShare struct {
	Category      core.Category `json:"category"`
	Amount        core.Money    `json:"amount"`
	Percentage    float64       `json:"percentage"`
	Count         int           `json:"count"`
	AverageAmount core.Money    `json:"averageAmount"`
	Color         string        `json:"color"`
}

type MonthlyTrend struct {
	Month         string          `json:"month"` // YYYY-MM
	Year          int             `json:"year"`
	MonthName     string          `json:"monthName"`
	TotalAmount   core.Money      `json:"totalAmount"`
	ExpenseCount  int             `json:"expenseCount"`
	AverageAmount core.Money      `json:"averageAmount"`
	Categories    []CategoryShare `json:"categories"`
}

type SpendingPattern struct {
	DayOfWeek     string     `json:"dayOfWeek"`
	AverageAmount core.Money `json:"averageAmount"`
	Count         int        `json:"count"`
	Percentage    float64    `json:"percentage"`
}

type Activity struct {
	ID          string        `json:"id"`
	Type        ActivityType  `json:"type"`
	Description string        `json:"description"`
	Amount      core.Money    `json:"amount"`
	Category    core.Category `json:"category"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Data is an analytics snapshot over one filtered set of expenses.
type Data struct {
	TotalExpenses        core.Money        `json:"totalExpenses"`
	MonthlyExpenses      core.Money        `json:"monthlyExpenses"`
	CategoryBreakdown    []CategoryShare   `json:"categoryBreakdown"`
	MonthlyTrends        []MonthlyTrend    `json:"monthlyTrends"`
	SpendingPatterns     []SpendingPattern `json:"spendingPatterns"`
	AverageDailySpending core.Money        `json:"averageDailySpending"`
	TopCategories        []CategoryShare   `json:"topCategories"`
	RecentActivity       []Activity        `json:"recentActivity"`
}

// Calculations compares a snapshot against the preceding period.
//
// SpendingGrowth is nil when the previous period had no spending, since a
// percentage change from zero is undefined.
type Calculations struct {
	TotalSpent             core.Money                `json:"totalSpent"`
	AveragePerDay          core.Money                `json:"averagePerDay"`
	AveragePerExpense      core.Money                `json:"averagePerExpense"`
	MostExpensiveCategory  *CategoryShare            `json:"mostExpensiveCategory"`
	LeastExpensiveCategory *CategoryShare            `json:"leastExpensiveCategory"`
	SpendingGrowth         *float64                  `json:"spendingGrowth"`
	CategoryGrowth         map[core.Category]float64 `json:"categoryGrowth"`
}
