package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spendwise/internal/backend"
	"spendwise/internal/buildinfo"
	"spendwise/internal/cli"
	"spendwise/internal/config"
	"spendwise/internal/log"
)

// app is the per-invocation state shared by every subcommand.
type app struct {
	envFile  string
	asJSON   bool
	dumpLogs bool
	logDump  logDump

	cfg     *config.Config
	logger  *log.Logger
	backend *backend.BackendResult
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "spendwise",
		Short:   "Personal expense analytics and spending limits",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "environment file to load before reading configuration")
	flags.BoolVar(&a.asJSON, "json", false, "print results as JSON")
	flags.BoolVar(&a.dumpLogs, "dump-logs", false, "write the retained log entries as JSON to stderr on exit")
	flags.StringVar(&a.logDump.query, "log-search", "", "only dump log entries matching this text")
	flags.StringVar(&a.logDump.level, "log-level", "", "only dump log entries at this level (debug, info, warn, error)")
	flags.StringVar(&a.logDump.source, "log-source", "", "with --log-level, only dump entries whose component or source contains this text")
	rootCmd.MarkFlagsMutuallyExclusive("log-search", "log-level")

	rootCmd.AddCommand(
		newExpenseCommand(a),
		newAnalyticsCommand(a),
		newLimitsCommand(a),
		newAlertsCommand(a),
	)

	return rootCmd
}

// run wraps a command body with setup and teardown of the backend.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.open(cmd.Context()); err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(cmd); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args)
	}
}

func (a *app) open(ctx context.Context) error {
	if err := cli.LoadEnvFile(a.envFile); err != nil {
		return err
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg).WithComponent(log.ComponentCLI)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(a.logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", bcfg.Type, err)
	}
	a.backend = res
	return nil
}

func (a *app) close(cmd *cobra.Command) error {
	var err error
	if a.backend != nil && a.backend.Cleanup != nil {
		err = a.backend.Cleanup()
		a.backend = nil
	}
	if a.dumpLogs && a.logger != nil && a.logger.Buffer() != nil {
		if derr := dumpLogs(cmd.ErrOrStderr(), a.logger.Buffer(), a.logDump); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

func (a *app) now() time.Time {
	if a.cfg == nil {
		return time.Now()
	}
	return time.Now().In(a.cfg.Location())
}
