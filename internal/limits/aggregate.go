package limits

import "spendwise/internal/core"

// Aggregate summarizes limits and the statuses computed for them.
//
// Each category is scored by the highest utilization among its statuses.
// The most exceeded category is the first whose score is above 0, then
// strictly above every earlier one; the most underutilized is the first below
// 100, then strictly below. Categories are visited in first-seen order.
func Aggregate(limits []core.SpendingLimit, statuses []Status) Analytics {
	a := Analytics{TotalLimits: len(limits)}
	for _, l := range limits {
		if l.IsActive {
			a.ActiveLimits++
			a.TotalLimitAmount = a.TotalLimitAmount.Add(l.Amount)
		}
	}

	var order []core.Category
	peak := make(map[core.Category]float64)
	for _, s := range statuses {
		if s.IsExceeded {
			a.ExceededLimits++
		}
		if s.IsNearLimit {
			a.ApproachingLimits++
		}
		a.TotalCurrentSpending = a.TotalCurrentSpending.Add(s.CurrentAmount)

		if _, ok := peak[s.Category]; !ok {
			order = append(order, s.Category)
			peak[s.Category] = 0
		}
		peak[s.Category] = max(peak[s.Category], s.PercentageUsed)
	}

	if a.TotalLimitAmount.Cents > 0 {
		a.AverageLimitUtilization = float64(a.TotalCurrentSpending.Cents) * 100 / float64(a.TotalLimitAmount.Cents)
	}

	hi, lo := 0.0, 100.0
	for _, c := range order {
		u := peak[c]
		if u > hi {
			hi = u
			a.MostExceededCategory = c
		}
		if u < lo {
			lo = u
			a.MostUnderutilizedCategory = c
		}
	}
	return a
}
