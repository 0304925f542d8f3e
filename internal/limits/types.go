// Package limits tracks spending against user-defined budget ceilings.
//
// The status, alert, suggestion, validation and aggregate functions are pure:
// they work on already-loaded expense and limit lists and take the current
// instant as an argument. Manager layers validated CRUD over a Repository.
package limits

import (
	"errors"
	"strings"
	"time"

	"spendwise/internal/core"
)

// NearLimitThreshold is the utilization percentage at which a limit counts
// as near its ceiling.
const NearLimitThreshold = 80.0

// UnusualAmount is the ceiling above which a limit draft gets a warning.
var UnusualAmount = core.Units(100000)

var ErrLimitNotFound = errors.New("limit not found")

type AlertType string

const (
	AlertApproaching AlertType = "approaching_limit"
	AlertExceeded    AlertType = "limit_exceeded"
	AlertReset       AlertType = "limit_reset" // reserved, never generated
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Status is the live state of one limit in its current period window.
type Status struct {
	LimitID         string           `json:"limitId"`
	Category        core.Category    `json:"category"`
	LimitAmount     core.Money       `json:"limitAmount"`
	CurrentAmount   core.Money       `json:"currentAmount"`
	RemainingAmount core.Money       `json:"remainingAmount"`
	PercentageUsed  float64          `json:"percentageUsed"`
	IsExceeded      bool             `json:"isExceeded"`
	IsNearLimit     bool             `json:"isNearLimit"`
	Period          core.LimitPeriod `json:"period"`
	PeriodStart     time.Time        `json:"periodStart"`
	PeriodEnd       time.Time        `json:"periodEnd"`
	LastUpdated     time.Time        `json:"lastUpdated"`
}

type Alert struct {
	ID             string    `json:"id"`
	LimitID        string    `json:"limitId"`
	Type           AlertType `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Severity       Severity  `json:"severity"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
	ActionRequired bool      `json:"actionRequired"`
	ActionText     string    `json:"actionText,omitempty"`
}

// SuggestionBasis is the spending history a suggestion was derived from.
type SuggestionBasis struct {
	AverageSpending core.Money `json:"averageSpending"`
	MaxSpending     core.Money `json:"maxSpending"`
	Frequency       int        `json:"frequency"`
	Trend           Trend      `json:"trend"`
}

type Suggestion struct {
	Category        core.Category    `json:"category"`
	SuggestedAmount core.Money       `json:"suggestedAmount"`
	SuggestedPeriod core.LimitPeriod `json:"suggestedPeriod"`
	Confidence      float64          `json:"confidence"`
	Reasoning       string           `json:"reasoning"`
	BasedOn         SuggestionBasis  `json:"basedOnData"`
}

// Draft is the user-editable part of a limit, as checked by Validate.
type Draft struct {
	Category core.Category
	Amount   core.Money
	Period   core.LimitPeriod
}

// DraftOf returns the editable fields of l.
func DraftOf(l core.SpendingLimit) Draft {
	return Draft{Category: l.Category, Amount: l.Amount, Period: l.Period}
}

type Validation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Analytics summarizes a set of limits and their statuses.
// MostExceededCategory and MostUnderutilizedCategory are empty when no
// status qualifies.
type Analytics struct {
	TotalLimits               int           `json:"totalLimits"`
	ActiveLimits              int           `json:"activeLimits"`
	ExceededLimits            int           `json:"exceededLimits"`
	ApproachingLimits         int           `json:"approachingLimits"`
	TotalLimitAmount          core.Money    `json:"totalLimitAmount"`
	TotalCurrentSpending      core.Money    `json:"totalCurrentSpending"`
	AverageLimitUtilization   float64       `json:"averageLimitUtilization"`
	MostExceededCategory      core.Category `json:"mostExceededCategory,omitempty"`
	MostUnderutilizedCategory core.Category `json:"mostUnderutilizedCategory,omitempty"`
}

// ValidationError is returned by Manager when a limit fails Validate.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, ", ")
}

// FormatLimitPeriod returns the display label of a period.
func FormatLimitPeriod(p core.LimitPeriod) string {
	switch p {
	case core.Daily:
		return "Daily"
	case core.Weekly:
		return "Weekly"
	case core.Monthly:
		return "Monthly"
	case core.Yearly:
		return "Yearly"
	default:
		return "Unknown"
	}
}
