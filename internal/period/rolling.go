package period

import (
	"fmt"
	"time"

	"spendwise/internal/core"
)

// Epoch is the start date used for the "all" period. It is a fixed date, not
// the earliest expense on record.
var Epoch = core.NewDate(2020, 1, 1)

// DateRange is an inclusive calendar-date range tagged with the period that
// produced it.
type DateRange struct {
	StartDate core.Date       `json:"startDate"`
	EndDate   core.Date       `json:"endDate"`
	Period    core.TimePeriod `json:"period"`
}

// Contains reports whether d lies within the range, bounds included.
func (r DateRange) Contains(d core.Date) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

// Days returns the number of days between the bounds.
func (r DateRange) Days() int {
	return int(r.EndDate.Sub(r.StartDate.Time).Hours() / 24)
}

// Rolling returns the lookback range for p ending today.
func Rolling(now time.Time, p core.TimePeriod) (DateRange, error) {
	today := core.DateOf(now)
	var start core.Date
	switch p {
	case core.PeriodWeek:
		start = today.AddDays(-7)
	case core.PeriodMonth:
		start = core.Date{Time: today.AddDate(0, -1, 0)}
	case core.PeriodQuarter:
		start = core.Date{Time: today.AddDate(0, -3, 0)}
	case core.PeriodYear:
		start = core.Date{Time: today.AddDate(-1, 0, 0)}
	case core.PeriodAll:
		start = Epoch
	default:
		return DateRange{}, fmt.Errorf("%w: %s", core.ErrInvalidPeriod, p)
	}
	return DateRange{StartDate: start, EndDate: today, Period: p}, nil
}

// Previous returns the equal-length range immediately preceding r; both
// bounds move back by the length of r.
func Previous(r DateRange) DateRange {
	n := r.Days()
	return DateRange{
		StartDate: r.StartDate.AddDays(-n),
		EndDate:   r.EndDate.AddDays(-n),
		Period:    r.Period,
	}
}

// LastMonth returns the full calendar month before the one containing now.
func LastMonth(now time.Time) DateRange {
	firstThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastPrev := firstThis.AddDate(0, 0, -1)
	firstPrev := time.Date(lastPrev.Year(), lastPrev.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{
		StartDate: core.Date{Time: firstPrev},
		EndDate:   core.Date{Time: lastPrev},
		Period:    core.PeriodMonth,
	}
}
