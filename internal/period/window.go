// Package period computes calendar windows for recurring spending limits and
// rolling lookback ranges for analytics.
//
// Each limit period (daily, weekly, monthly, yearly) has its own Windower
// strategy. Windows are computed in the anchor's location, so the host
// calendar and timezone decide where a day begins.
package period

import (
	"fmt"
	"time"

	"spendwise/internal/core"
)

// Range is an inclusive instant range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Windower is the strategy interface for resolving the calendar unit that
// contains an instant.
type Windower interface {
	// Window returns the first and last instant of the unit containing anchor.
	Window(anchor time.Time) Range
}

// DailyWindow spans a single calendar day.
type DailyWindow struct{}

func (DailyWindow) Window(anchor time.Time) Range {
	start := startOfDay(anchor)
	return Range{Start: start, End: endOfDay(start)}
}

// WeeklyWindow spans Sunday through Saturday.
type WeeklyWindow struct{}

func (WeeklyWindow) Window(anchor time.Time) Range {
	start := startOfDay(anchor)
	start = start.AddDate(0, 0, -int(start.Weekday()))
	return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
}

// MonthlyWindow spans the calendar month.
type MonthlyWindow struct{}

func (MonthlyWindow) Window(anchor time.Time) Range {
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	// Day 0 of the following month is the last day of this one.
	last := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, anchor.Location())
	return Range{Start: start, End: endOfDay(last)}
}

// YearlyWindow spans January 1 through December 31.
type YearlyWindow struct{}

func (YearlyWindow) Window(anchor time.Time) Range {
	start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
	last := time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, anchor.Location())
	return Range{Start: start, End: endOfDay(last)}
}

// windowers is read-only after package init.
var windowers = map[core.LimitPeriod]Windower{
	core.Daily:   DailyWindow{},
	core.Weekly:  WeeklyWindow{},
	core.Monthly: MonthlyWindow{},
	core.Yearly:  YearlyWindow{},
}

// GetWindower returns the strategy for a limit period.
func GetWindower(p core.LimitPeriod) (Windower, error) {
	w, ok := windowers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidPeriod, p)
	}
	return w, nil
}

// Window returns the period window of p containing anchor.
func Window(anchor time.Time, p core.LimitPeriod) (Range, error) {
	w, err := GetWindower(p)
	if err != nil {
		return Range{}, err
	}
	return w.Window(anchor), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
