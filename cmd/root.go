package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/productr/catalog-system/internal/pkg/config"
	"github.com/productr/catalog-system/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "productr",
	Short: "Productr catalog API",
	Long: `Productr serves passwordless OTP login and an owner-scoped product catalog.

	productr serve     start the HTTP API
	productr indexes   create the MongoDB indexes and exit
`,
	SilenceUsage: true,
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel))
	return cfg, nil
}
