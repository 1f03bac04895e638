package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autox-agent/internal/agent/collector"
	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/pipeline"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/internal/storage/sqlite"
	"github.com/autox-agent/internal/tracker"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.Repository
	limiter *ratelimit.MultiLimiter
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autox",
		Short: "Autonomous X posting pipeline",
		Long: `A four stage pipeline that collects Indian news topics, curates the
most relevant ones, generates Hinglish tweet variants with AI and enriches
them with engagement metadata for manual posting.`,
		PersistentPreRunE: initializeApp,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(curateCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(enhanceCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(topicsCmd())
	rootCmd.AddCommand(postsCmd())
	rootCmd.AddCommand(trackerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
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

	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	limiter = ratelimit.NewDefaultLimiter()
	return nil
}

// ============ STAGE COMMANDS ============

func collectCmd() *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Step 1: fetch topics from RSS feeds and trending pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := pipeline.NewCollector(cfg, repo, limiter, log)

			var result *collector.Result
			var err error
			if sourceName != "" {
				result, err = agent.RunForSource(ctx, sourceName, pipeline.SourceLimits(cfg))
			} else {
				result, err = agent.Run(ctx, pipeline.SourceLimits(cfg))
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Collection Results ===\n")
			fmt.Printf("Fetched:  %d\n", result.TotalFetched)
			fmt.Printf("New:      %d\n", result.Upserted)
			fmt.Printf("Duration: %s\n", result.Duration)

			if len(result.Sample) > 0 {
				fmt.Printf("\nSample:\n")
				for _, t := range result.Sample {
					fmt.Printf("  - %s (%s)\n", t.Title, strings.Join(t.Tags, ", "))
				}
			}
			printErrors(result.Errors)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "run collection for a single named source")
	return cmd
}

func curateCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Step 2: score collected topics and keep the best",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			n := topN
			if n <= 0 {
				n = cfg.Curation.TopN
			}

			agent := pipeline.NewCurator(repo, log)
			result, err := agent.Run(ctx, n)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Curation Results ===\n")
			fmt.Printf("Loaded:   %d\n", result.Loaded)
			fmt.Printf("Selected: %d\n", len(result.Selected))
			fmt.Printf("Duration: %s\n", result.Duration)

			for _, t := range result.Selected {
				fmt.Printf("  [%3d] %s (%s)\n", t.Score, t.Title, strings.Join(t.Tags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 0, "number of topics to keep (default from config)")
	return cmd
}

func generateCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Step 3: generate tweet variants for approved topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			m := mode
			if m == "" {
				m = cfg.Generation.Mode
			}
			if err := cfg.ValidateForGeneration(m); err != nil {
				return err
			}

			agent := pipeline.NewGenerator(cfg, repo, limiter, log)
			result, err := agent.Run(ctx, m)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Generation Results ===\n")
			fmt.Printf("Mode:      %s\n", result.Mode)
			fmt.Printf("Processed: %d\n", result.Processed)
			fmt.Printf("Duration:  %s\n", result.Duration)

			for _, r := range result.Results {
				fmt.Printf("  %s: %d variants\n", r.Topic, r.VariantCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "generation mode: live or mock (default from config)")
	return cmd
}

func enhanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enhance",
		Short: "Step 4: attach images, retweets and comments to generated tweets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := pipeline.NewEnhancer(cfg, repo, limiter, log)
			result, err := agent.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Enrichment Results ===\n")
			fmt.Printf("Updated:  %d\n", result.Updated)
			fmt.Printf("Duration: %s\n", result.Duration)
			printErrors(result.Errors)
			return nil
		},
	}
}

// ============ INSPECTION COMMANDS ============

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			counts, err := repo.Counts(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Pipeline State ===\n")
			fmt.Printf("Collected topics: %d\n", counts.RawTopics)
			fmt.Printf("Approved topics:  %d\n", counts.TopTopics)
			fmt.Printf("Tweet batches:    %d\n", counts.FinalPosts)
			return nil
		},
	}
}

func topicsCmd() *cobra.Command {
	var approved bool

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List collected or approved topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var topics []*models.Topic
			var err error
			if approved {
				topics, err = repo.ListApprovedTopics(ctx)
			} else {
				topics, err = repo.ListRawTopics(ctx)
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Topics (%d) ===\n\n", len(topics))
			for _, t := range topics {
				trend := ""
				if t.XTrending {
					trend = " [trending]"
					if t.TrendRank != nil {
						trend = fmt.Sprintf(" [trending #%d]", *t.TrendRank)
					}
				}
				fmt.Printf("[%3d] %s%s\n", t.Score, t.Title, trend)
				fmt.Printf("      %s | %s | %s\n", t.Status, strings.Join(t.Tags, ", "), t.Source)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&approved, "approved", false, "list approved topics instead of collected ones")
	return cmd
}

func postsCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List generated tweet batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var posts []*models.GeneratedPost
			var err error
			if status != "" {
				posts, err = repo.ListPostsByStatus(ctx, models.TopicStatus(status))
			} else {
				posts, err = repo.ListRecentPosts(ctx, limit)
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Tweet Batches (%d) ===\n\n", len(posts))
			for _, p := range posts {
				fmt.Printf("[%d] %s | %s | %d variants\n", p.ID, p.Status, p.TopicTitle, len(p.Variants))
				for i, v := range p.Variants {
					fmt.Printf("    %d. %s\n", i+1, truncateStr(v.TweetText, 100))
					if v.ImageURL != "" {
						fmt.Printf("       Image: %s\n", v.ImageURL)
					}
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status: generated or enhanced")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of batches to list")
	return cmd
}

// ============ TRACKER COMMANDS ============

func trackerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Google Sheets export management",
	}

	cmd.AddCommand(trackerInitCmd())
	cmd.AddCommand(trackerExportCmd())
	return cmd
}

func newTracker() (*tracker.SheetsTracker, error) {
	if err := cfg.ValidateForTracker(); err != nil {
		return nil, err
	}
	return tracker.NewSheetsTracker(tracker.Config{
		Enabled:            cfg.Tracker.Enabled,
		SpreadsheetID:      cfg.Tracker.SpreadsheetID,
		SheetName:          cfg.Tracker.SheetName,
		CredentialsFile:    cfg.Tracker.CredentialsFile,
		ServiceAccountJSON: cfg.Tracker.ServiceAccountJSON,
	}, limiter, log)
}

func trackerInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the Google Sheet with headers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t, err := newTracker()
			if err != nil {
				return fmt.Errorf("failed to create tracker: %w", err)
			}
			if err := t.InitializeSheet(ctx); err != nil {
				return fmt.Errorf("failed to initialize sheet: %w", err)
			}

			fmt.Println("Google Sheet initialized successfully!")
			fmt.Printf("Spreadsheet ID: %s\n", cfg.Tracker.SpreadsheetID)
			fmt.Println("\nColumns created:")
			for i, col := range tracker.SheetColumns {
				fmt.Printf("  %d. %s\n", i+1, col)
			}
			return nil
		},
	}
}

func trackerExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export enhanced tweet batches to the Google Sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t, err := newTracker()
			if err != nil {
				return fmt.Errorf("failed to create tracker: %w", err)
			}

			posts, err := repo.ListPostsByStatus(ctx, models.TopicStatusEnhanced)
			if err != nil {
				return fmt.Errorf("failed to load enhanced posts: %w", err)
			}

			rows, err := t.AppendPosts(ctx, posts)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			fmt.Printf("Exported %d rows from %d batches.\n", rows, len(posts))
			fmt.Printf("View at: https://docs.google.com/spreadsheets/d/%s\n", cfg.Tracker.SpreadsheetID)
			return nil
		},
	}
}

// ============ HELPERS ============

func printErrors(errs []error) {
	if len(errs) == 0 {
		return
	}
	fmt.Printf("\nErrors:\n")
	for _, e := range errs {
		fmt.Printf("  - %s\n", e)
	}
}

func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
