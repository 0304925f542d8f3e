package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
	"spendwise/internal/period"
	"spendwise/internal/services"
)

func newAnalyticsCommand(a *app) *cobra.Command {
	var (
		lookback   string
		categories []string
		minAmount  string
		maxAmount  string
		lastMonth  bool
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize spending for a period",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			now := a.now()
			f := analytics.DefaultFilters(now)
			if lastMonth {
				f.TimeRange = period.LastMonth(now)
			} else if cmd.Flags().Changed("period") {
				p, err := core.ParseTimePeriod(lookback)
				if err != nil {
					return err
				}
				if f.TimeRange, err = period.Rolling(now, p); err != nil {
					return err
				}
			}

			var err error
			for _, s := range categories {
				c, err := core.ParseCategory(s)
				if err != nil {
					return err
				}
				f.Categories = append(f.Categories, c)
			}
			if f.MinAmount, err = optionalMoney(minAmount); err != nil {
				return fmt.Errorf("min: %w", err)
			}
			if f.MaxAmount, err = optionalMoney(maxAmount); err != nil {
				return fmt.Errorf("max: %w", err)
			}

			snap, err := a.backend.Dashboard.Snapshot(cmd.Context(), f, now)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			return printSnapshot(cmd.OutOrStdout(), f.TimeRange, snap)
		}),
	}

	cmd.Flags().StringVar(&lookback, "period", string(core.PeriodMonth), "lookback: week, month, quarter, year or all")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "restrict to these categories (repeatable)")
	cmd.Flags().StringVar(&minAmount, "min", "", "ignore expenses below this amount")
	cmd.Flags().StringVar(&maxAmount, "max", "", "ignore expenses above this amount")
	cmd.Flags().BoolVar(&lastMonth, "last-month", false, "cover the previous calendar month")
	cmd.MarkFlagsMutuallyExclusive("period", "last-month")

	return cmd
}

func optionalMoney(s string) (*core.Money, error) {
	if s == "" {
		return nil, nil
	}
	m, err := core.ParseMoney(s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func printSnapshot(w io.Writer, r period.DateRange, s services.Snapshot) error {
	d, c := s.Analytics, s.Calculations

	fmt.Fprintf(w, "Period %s to %s\n", r.StartDate, r.EndDate)
	fmt.Fprintf(w, "Total spent: %s  (this month %s)\n", core.FormatCurrency(d.TotalExpenses), core.FormatCurrency(d.MonthlyExpenses))
	fmt.Fprintf(w, "Average per day: %s  per expense: %s\n", core.FormatCurrency(c.AveragePerDay), core.FormatCurrency(c.AveragePerExpense))
	if c.SpendingGrowth != nil {
		fmt.Fprintf(w, "Change vs previous period: %s\n", analytics.FormatPercentage(*c.SpendingGrowth))
	}

	if len(d.CategoryBreakdown) > 0 {
		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE\tCOUNT\tAVERAGE")
		for _, b := range d.CategoryBreakdown {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", b.Category.DisplayName(), core.FormatCurrency(b.Amount),
				analytics.FormatPercentage(b.Percentage), b.Count, core.FormatCurrency(b.AverageAmount))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(s.Statuses) > 0 {
		fmt.Fprintln(w)
		if err := printStatuses(w, s.Statuses); err != nil {
			return err
		}
	}
	if len(s.Alerts) > 0 {
		fmt.Fprintf(w, "\n%d unread alert(s)\n", s.UnreadAlerts)
		printAlerts(w, s.Alerts)
	}
	return nil
}
