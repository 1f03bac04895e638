package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Generation GenerationConfig `mapstructure:"generation"`
	Refinement RefinementConfig `mapstructure:"refinement"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	Curation   CurationConfig   `mapstructure:"curation"`
	Server     ServerConfig     `mapstructure:"server"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Tracker    TrackerConfig    `mapstructure:"tracker"`
	Media      MediaConfig      `mapstructure:"media"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // SQLite path
}

// GenerationConfig holds settings for the text-generation service
type GenerationConfig struct {
	Mode        string        `mapstructure:"mode"` // live or mock
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RefinementConfig holds settings for the optional rewrite service. When the
// API key is empty the refinement step is skipped and text passes through.
type RefinementConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SourcesConfig holds all topic source configurations
type SourcesConfig struct {
	RSS    RSSConfig    `mapstructure:"rss"`
	Trends TrendsConfig `mapstructure:"trends"`
}

// RSSConfig holds RSS feed settings
type RSSConfig struct {
	Enabled bool      `mapstructure:"enabled"`
	Feeds   []RSSFeed `mapstructure:"feeds"`
	PerFeed int       `mapstructure:"per_feed"` // items kept per feed
}

// RSSFeed represents a single RSS feed
type RSSFeed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// TrendsConfig holds trending-topics scrape settings
type TrendsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Limit   int    `mapstructure:"limit"`
}

// CurationConfig holds selection settings
type CurationConfig struct {
	TopN int `mapstructure:"top_n"`
}

// ServerConfig holds dashboard server settings
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// SchedulerConfig holds cron expressions per stage; empty disables a stage.
type SchedulerConfig struct {
	CollectCron  string `mapstructure:"collect_cron"`
	CurateCron   string `mapstructure:"curate_cron"`
	GenerateCron string `mapstructure:"generate_cron"`
	EnhanceCron  string `mapstructure:"enhance_cron"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// TrackerConfig holds Google Sheets posting-sheet settings
type TrackerConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SheetName          string `mapstructure:"sheet_name"`
	CredentialsFile    string `mapstructure:"credentials_file"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

// MediaConfig holds image lookup settings
type MediaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	UnsplashAPIKey string `mapstructure:"unsplash_api_key"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".autox-agent"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("AUTOX")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("database.dsn", "AUTOX_DATABASE_DSN")
	v.BindEnv("generation.api_key", "AUTOX_GENERATION_API_KEY")
	v.BindEnv("generation.mode", "AUTOX_GENERATION_MODE")
	v.BindEnv("refinement.api_key", "AUTOX_REFINEMENT_API_KEY")
	v.BindEnv("refinement.base_url", "AUTOX_REFINEMENT_BASE_URL")
	v.BindEnv("server.port", "AUTOX_SERVER_PORT")
	v.BindEnv("tracker.enabled", "AUTOX_TRACKER_ENABLED")
	v.BindEnv("tracker.spreadsheet_id", "AUTOX_TRACKER_SPREADSHEET_ID")
	v.BindEnv("tracker.credentials_file", "AUTOX_TRACKER_CREDENTIALS_FILE")
	v.BindEnv("tracker.service_account_json", "AUTOX_TRACKER_SERVICE_ACCOUNT_JSON")
	v.BindEnv("media.enabled", "AUTOX_MEDIA_ENABLED")
	v.BindEnv("media.unsplash_api_key", "AUTOX_MEDIA_UNSPLASH_API_KEY")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.dsn", "./data/autox.db")

	// Generation defaults
	v.SetDefault("generation.mode", "live")
	v.SetDefault("generation.model", "claude-sonnet-4-20250514")
	v.SetDefault("generation.max_tokens", 2048)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.timeout", "2m")

	// Refinement defaults
	v.SetDefault("refinement.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("refinement.model", "gemini-pro")
	v.SetDefault("refinement.timeout", "1m")

	// Sources defaults
	v.SetDefault("sources.rss.enabled", true)
	v.SetDefault("sources.rss.per_feed", 5)
	v.SetDefault("sources.rss.feeds", []map[string]string{
		{"name": "Google News - India Politics", "url": "https://news.google.com/rss/search?q=India+Politics"},
		{"name": "Google News - Ram Mandir", "url": "https://news.google.com/rss/search?q=Ram+Mandir"},
		{"name": "Google News - Hindu festival", "url": "https://news.google.com/rss/search?q=Hindu+festival"},
		{"name": "Google News - India World Politics", "url": "https://news.google.com/rss/search?q=India+World+Politics"},
		{"name": "Economic Times Politics", "url": "https://economictimes.indiatimes.com/rssfeeds/Politics.xml"},
	})
	v.SetDefault("sources.trends.enabled", true)
	v.SetDefault("sources.trends.url", "https://trends24.in/india/")
	v.SetDefault("sources.trends.limit", 5)

	// Curation defaults
	v.SetDefault("curation.top_n", 5)

	// Server defaults
	v.SetDefault("server.port", "3000")

	// Scheduler defaults: collect every 2 hours, curate and generate in the
	// morning, enhance right after.
	v.SetDefault("scheduler.collect_cron", "0 */2 * * *")
	v.SetDefault("scheduler.curate_cron", "30 7 * * *")
	v.SetDefault("scheduler.generate_cron", "45 7 * * *")
	v.SetDefault("scheduler.enhance_cron", "15 8 * * *")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")

	// Tracker defaults
	v.SetDefault("tracker.enabled", false)
	v.SetDefault("tracker.sheet_name", "Posts")

	// Media defaults
	v.SetDefault("media.enabled", false)
}

// ValidateForGeneration checks the settings the generation stage needs
// before any work starts. Mock mode needs no credentials.
func (c *Config) ValidateForGeneration(mode string) error {
	if mode == "mock" {
		return nil
	}
	if c.Generation.APIKey == "" {
		return fmt.Errorf("generation.api_key is required in live mode")
	}
	return nil
}

// ValidateForTracker checks the settings the sheet export needs.
func (c *Config) ValidateForTracker() error {
	if !c.Tracker.Enabled {
		return fmt.Errorf("tracker is not enabled (set tracker.enabled=true)")
	}
	if c.Tracker.SpreadsheetID == "" {
		return fmt.Errorf("tracker.spreadsheet_id is required")
	}
	if c.Tracker.CredentialsFile == "" && c.Tracker.ServiceAccountJSON == "" {
		return fmt.Errorf("tracker credentials are required (credentials_file or service_account_json)")
	}
	return nil
}

// RefinementEnabled reports whether the optional rewrite step is configured.
func (c *Config) RefinementEnabled() bool {
	return c.Refinement.APIKey != ""
}
