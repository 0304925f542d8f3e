package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"spendwise/internal/core"
	"spendwise/internal/limits"
)

func newLimitsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "limits",
		Aliases: []string{"limit"},
		Short:   "Manage spending limits",
	}
	cmd.AddCommand(
		newLimitAddCommand(a),
		newLimitListCommand(a),
		newLimitEditCommand(a),
		newLimitDeleteCommand(a),
		newLimitToggleCommand(a),
		newLimitStatusCommand(a),
		newLimitSuggestCommand(a),
	)
	return cmd
}

func newLimitAddCommand(a *app) *cobra.Command {
	var category, amount, limitPeriod string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a spending limit",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			c, err := core.ParseLimitCategory(category)
			if err != nil {
				return err
			}
			m, err := core.ParseMoney(amount)
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			p, err := core.ParseLimitPeriod(limitPeriod)
			if err != nil {
				return err
			}

			l, err := a.backend.Limits.Create(cmd.Context(), limits.CreateRequest{Category: c, Amount: m, Period: p})
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), l)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s limit of %s for %s (%s)\n",
				limits.FormatLimitPeriod(l.Period), core.FormatCurrency(l.Amount), l.Category.DisplayName(), l.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&category, "category", "", "category, or overall for all spending (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "ceiling amount (required)")
	cmd.Flags().StringVar(&limitPeriod, "period", string(core.Monthly), "daily, weekly, monthly or yearly")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newLimitListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List spending limits",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ls, err := a.backend.Limits.List(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), ls)
			}
			return printLimits(cmd.OutOrStdout(), ls)
		}),
	}
}

func newLimitEditCommand(a *app) *cobra.Command {
	var (
		amount      string
		limitPeriod string
		active      bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the amount, period or state of a limit",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var req limits.UpdateRequest
			flags := cmd.Flags()
			if flags.Changed("amount") {
				m, err := core.ParseMoney(amount)
				if err != nil {
					return fmt.Errorf("amount: %w", err)
				}
				req.Amount = &m
			}
			if flags.Changed("period") {
				p, err := core.ParseLimitPeriod(limitPeriod)
				if err != nil {
					return err
				}
				req.Period = &p
			}
			if flags.Changed("active") {
				req.IsActive = &active
			}

			l, err := a.backend.Limits.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), l)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", l.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new ceiling amount")
	cmd.Flags().StringVar(&limitPeriod, "period", "", "new period")
	cmd.Flags().BoolVar(&active, "active", true, "whether the limit is enforced")

	return cmd
}

func newLimitDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a spending limit",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := a.backend.Limits.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newLimitToggleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a limit between active and paused",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			l, err := a.backend.Limits.ToggleActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "paused"
			if l.IsActive {
				state = "active"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", l.ID, state)
			return nil
		}),
	}
}

func newLimitStatusCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show spending against each active limit",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			expenses, err := a.backend.Expenses.List(ctx)
			if err != nil {
				return err
			}

			var statuses []limits.Status
			if category != "" {
				c, err := core.ParseLimitCategory(category)
				if err != nil {
					return err
				}
				s, err := a.backend.Limits.StatusByCategory(ctx, c, expenses)
				if err != nil {
					return err
				}
				statuses = []limits.Status{s}
			} else if statuses, err = a.backend.Limits.Statuses(ctx, expenses); err != nil {
				return err
			}

			summary, err := a.backend.Limits.Analytics(ctx, expenses)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{"statuses": statuses, "summary": summary})
			}
			if err := printStatuses(cmd.OutOrStdout(), statuses); err != nil {
				return err
			}
			if summary.ActiveLimits > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d active, %d exceeded, %d approaching, average utilization %.1f%%\n",
					summary.ActiveLimits, summary.ExceededLimits, summary.ApproachingLimits, summary.AverageLimitUtilization)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&category, "category", "", "only show the limit for this category")

	return cmd
}

func newLimitSuggestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Suggest limits for categories that have none",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			expenses, err := a.backend.Expenses.List(ctx)
			if err != nil {
				return err
			}
			suggestions, err := a.backend.Limits.Suggestions(ctx, expenses)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), suggestions)
			}
			if len(suggestions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No suggestions.")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tPERIOD\tCONFIDENCE\tREASONING")
			for _, s := range suggestions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\t%s\n", s.Category.DisplayName(), core.FormatCurrency(s.SuggestedAmount),
					limits.FormatLimitPeriod(s.SuggestedPeriod), s.Confidence*100, s.Reasoning)
			}
			return tw.Flush()
		}),
	}
}
