package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/pipeline"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/internal/storage/sqlite"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autox-scheduler",
		Short: "Background scheduler for the X posting pipeline",
		Long: `Runs the pipeline stages on cron schedules. This daemon should be
run as a service for autonomous operation.`,
		RunE: runScheduler,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	log.Info().Msg("Starting pipeline scheduler")

	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	limiter := ratelimit.NewDefaultLimiter()

	c := cron.New(cron.WithLogger(cronLogger{log}))

	jobs := []struct {
		name string
		cron string
		run  func(ctx context.Context) error
	}{
		{
			name: "collect",
			cron: cfg.Scheduler.CollectCron,
			run: func(ctx context.Context) error {
				agent := pipeline.NewCollector(cfg, repo, limiter, log)
				result, err := agent.Run(ctx, pipeline.SourceLimits(cfg))
				if err != nil {
					return err
				}
				log.Info().
					Int("fetched", result.TotalFetched).
					Int("new", result.Upserted).
					Msg("Scheduled collection completed")
				return nil
			},
		},
		{
			name: "curate",
			cron: cfg.Scheduler.CurateCron,
			run: func(ctx context.Context) error {
				agent := pipeline.NewCurator(repo, log)
				result, err := agent.Run(ctx, cfg.Curation.TopN)
				if err != nil {
					return err
				}
				log.Info().
					Int("loaded", result.Loaded).
					Int("selected", len(result.Selected)).
					Msg("Scheduled curation completed")
				return nil
			},
		},
		{
			name: "generate",
			cron: cfg.Scheduler.GenerateCron,
			run: func(ctx context.Context) error {
				if err := cfg.ValidateForGeneration(cfg.Generation.Mode); err != nil {
					return err
				}
				agent := pipeline.NewGenerator(cfg, repo, limiter, log)
				result, err := agent.Run(ctx, cfg.Generation.Mode)
				if err != nil {
					return err
				}
				log.Info().
					Int("processed", result.Processed).
					Msg("Scheduled generation completed")
				return nil
			},
		},
		{
			name: "enhance",
			cron: cfg.Scheduler.EnhanceCron,
			run: func(ctx context.Context) error {
				agent := pipeline.NewEnhancer(cfg, repo, limiter, log)
				result, err := agent.Run(ctx)
				if err != nil {
					return err
				}
				log.Info().
					Int("updated", result.Updated).
					Msg("Scheduled enrichment completed")
				return nil
			},
		},
	}

	for _, job := range jobs {
		if job.cron == "" {
			log.Info().Str("job", job.name).Msg("Job disabled, no cron expression")
			continue
		}
		job := job
		_, err := c.AddFunc(job.cron, func() {
			log.Info().Str("job", job.name).Msg("Running scheduled job")
			if err := job.run(context.Background()); err != nil {
				log.Error().Err(err).Str("job", job.name).Msg("Scheduled job failed")
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}
		log.Info().Str("job", job.name).Str("cron", job.cron).Msg("Job scheduled")
	}

	c.Start()
	log.Info().Msg("Scheduler started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down scheduler")
	c.Stop()

	return nil
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Msgf(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Msgf(msg, keysAndValues...)
}
