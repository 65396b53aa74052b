package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/evalrecon/internal/adapters/source"
	app "github.com/okian/evalrecon/internal/app"
	"github.com/okian/evalrecon/internal/config"
	"github.com/okian/evalrecon/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// cli carries what every subcommand needs after setup.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "evalrecon",
		Short:        "Reconcile evaluation attendance against submitted responses",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
	}

	root.AddCommand(newServeCmd(c), newExportCmd(c))
	return root
}

// setup initializes logging and loads configuration
// (defaults -> .env -> optional file -> env).
func (c *cli) setup(cmd *cobra.Command) error {
	if err := logger.InitWriter(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	c.log = logger.Get()

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	c.cfg = cfg
	return nil
}

// service builds the pipeline over the configured source.
func (c *cli) service() (*app.Service, error) {
	src, err := source.FromConfig(c.cfg)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithSource(src),
		app.WithLogger(c.log.Named("pipeline")),
	), nil
}
