package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spendwise/internal/adapters"
	"spendwise/internal/analytics"
	"spendwise/internal/core"
	"spendwise/internal/period"
	"spendwise/internal/services"
)

func newExpenseCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and manage expenses",
	}
	cmd.AddCommand(
		newExpenseAddCommand(a),
		newExpenseListCommand(a),
		newExpenseShowCommand(a),
		newExpenseEditCommand(a),
		newExpenseDeleteCommand(a),
	)
	return cmd
}

func newExpenseAddCommand(a *app) *cobra.Command {
	var form services.ExpenseForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if form.Date == "" {
				form.Date = core.DateOf(a.now()).String()
			}
			e, alerts, err := a.backend.Service.CreateExpense(cmd.Context(), form)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{"expense": e, "alerts": alerts})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s on %s (%s)\n",
				core.FormatCurrency(e.Amount), e.Category.DisplayName(), e.Date, e.ID)
			printAlerts(cmd.OutOrStdout(), alerts)
			return nil
		}),
	}

	cmd.Flags().StringVar(&form.Amount, "amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().StringVar(&form.Category, "category", "", "expense category (required)")
	cmd.Flags().StringVar(&form.Description, "description", "", "what the money was spent on (required)")
	cmd.Flags().StringVar(&form.Date, "date", "", "date as YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newExpenseListCommand(a *app) *cobra.Command {
	var (
		category string
		lookback string
		sortBy   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			by, err := analytics.ParseSortOption(sortBy)
			if err != nil {
				return err
			}
			var c core.Category
			if category != "" {
				if c, err = core.ParseCategory(category); err != nil {
					return err
				}
			}
			p, err := core.ParseTimePeriod(lookback)
			if err != nil {
				return err
			}
			r, err := period.Rolling(a.now(), p)
			if err != nil {
				return err
			}

			all, err := a.backend.Service.ListExpenses(cmd.Context())
			if err != nil {
				return err
			}
			out := analytics.Filter(analytics.ByCategory(all, c), analytics.Filters{TimeRange: r})
			out = analytics.Sort(out, by)

			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			return printExpenses(cmd.OutOrStdout(), out)
		}),
	}

	cmd.Flags().StringVar(&category, "category", "", "only show one category")
	cmd.Flags().StringVar(&lookback, "period", string(core.PeriodAll), "lookback: week, month, quarter, year or all")
	cmd.Flags().StringVar(&sortBy, "sort", string(analytics.SortDateDesc), "date-desc, date-asc, amount-desc, amount-asc or category")

	return cmd
}

func newExpenseShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one expense",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			e, err := a.backend.Service.GetExpense(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), e)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "ID\t%s\n", e.ID)
			fmt.Fprintf(tw, "Date\t%s\n", e.Date)
			fmt.Fprintf(tw, "Category\t%s\n", e.Category.DisplayName())
			fmt.Fprintf(tw, "Amount\t%s\n", core.FormatCurrency(e.Amount))
			fmt.Fprintf(tw, "Description\t%s\n", e.Description)
			fmt.Fprintf(tw, "Created\t%s\n", e.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(tw, "Updated\t%s\n", e.UpdatedAt.Format(time.RFC3339))
			return tw.Flush()
		}),
	}
}

func newExpenseEditCommand(a *app) *cobra.Command {
	var amount, category, description, date string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing expense",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var patch adapters.ExpensePatch
			flags := cmd.Flags()
			if flags.Changed("amount") {
				m, err := core.ParseMoney(amount)
				if err != nil {
					return fmt.Errorf("amount: %w", err)
				}
				patch.Amount = &m
			}
			if flags.Changed("category") {
				c, err := core.ParseCategory(category)
				if err != nil {
					return err
				}
				patch.Category = &c
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("date") {
				d, err := core.ParseDate(date)
				if err != nil {
					return err
				}
				patch.Date = &d
			}

			e, alerts, err := a.backend.Service.UpdateExpense(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{"expense": e, "alerts": alerts})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", e.ID)
			printAlerts(cmd.OutOrStdout(), alerts)
			return nil
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")

	return cmd
}

func newExpenseDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := a.backend.Service.DeleteExpense(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}
