package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spendwise/internal/amqp"
	"spendwise/internal/cli"
	"spendwise/internal/log"
	"spendwise/internal/worker"
)

func newAlertsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show or follow spending limit alerts",
	}
	cmd.AddCommand(newAlertsListCommand(a), newAlertsListenCommand(a))
	return cmd
}

func newAlertsListCommand(a *app) *cobra.Command {
	var critical bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the alerts raised by current spending",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			expenses, err := a.backend.Expenses.List(ctx)
			if err != nil {
				return err
			}
			raised := a.backend.Limits.Alerts
			if critical {
				raised = a.backend.Limits.CriticalAlerts
			}
			alerts, err := raised(ctx, expenses)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), alerts)
			}
			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No alerts.")
				return nil
			}
			printAlerts(cmd.OutOrStdout(), alerts)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&critical, "critical", false, "only show exceeded limits")

	return cmd
}

func newAlertsListenCommand(a *app) *cobra.Command {
	var replay bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print alerts published by other spendwise processes until interrupted",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			client := a.backend.Alerts
			if client == nil {
				return errors.New("alert listening needs a reachable AMQP broker; set AMQP_URL")
			}

			parent, stop := context.WithCancel(cmd.Context())
			defer stop()
			ctx, done := cli.GracefulShutdown(parent, a.logger, 5*time.Second, nil)

			w := worker.NewAlertWorker(cmd.OutOrStdout(), a.asJSON, a.backend.Expenses, a.backend.Limits, a.logger)
			if replay {
				if _, err := w.StartupCheck(ctx, a.now()); err != nil {
					a.logger.Warn("Startup alert check failed", log.FieldError, err)
				}
			}

			err := client.ConsumeAlerts(ctx, func(msg *amqp.AlertMessage) error {
				return w.HandleAlertMessage(ctx, msg)
			})
			stop()
			<-done
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}),
	}

	cmd.Flags().BoolVar(&replay, "replay", true, "first print the alerts current spending already raises")

	return cmd
}
