package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/server"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/internal/storage/sqlite"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "autox-server",
		Short: "Dashboard server for the X posting pipeline",
		Long: `Serves the pipeline dashboard API: current state, manual stage
triggers and the latest tweet batches.`,
		RunE: runServer,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	// The store opens lazily on the first request so the dashboard comes up
	// even while the database directory is still being provisioned.
	store := storage.NewHandle(func() (storage.Repository, error) {
		return sqlite.New(cfg.Database.DSN)
	})
	defer store.Close()

	limiter := ratelimit.NewDefaultLimiter()

	return server.New(cfg, store, limiter, log).Run()
}
