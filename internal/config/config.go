package config

import (
	"fmt"
	"os"
	"time"

	"nfl_v1/ingestion/internal/loader"
	"nfl_v1/ingestion/internal/validate"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Schedule API
	ScheduleAPIKey     string        `envconfig:"SCHEDULE_API_KEY" required:"true"`
	ScheduleAPIBaseURL string        `envconfig:"SCHEDULE_API_BASE_URL" default:"https://api.sportsdata.io/v3/nfl"`
	ScheduleAPITimeout time.Duration `envconfig:"SCHEDULE_API_TIMEOUT" default:"30s"`

	// Primary schedule snapshot
	ScheduleFilePath string `envconfig:"SCHEDULE_FILE_PATH" default:"data/schedule.json"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nfl_v1"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nfl_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler  bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	IngestCron       string `envconfig:"INGEST_CRON" default:"0 4 * * 2"` // Tuesday 4 AM, after MNF stats settle
	AuditCron        string `envconfig:"AUDIT_CRON" default:"0 6 * * *"`  // daily 6 AM
	LockDir          string `envconfig:"LOCK_DIR" default:"/tmp/nfl_v1"`
	CurrentSeason    int    `envconfig:"CURRENT_SEASON" default:"2025"`
	ScheduleCacheTTL time.Duration `envconfig:"SCHEDULE_CACHE_TTL" default:"6h"`

	// Alerts
	AlertWebhookURL    string        `envconfig:"ALERT_WEBHOOK_URL" default:""`
	AlertWebhookSecret string        `envconfig:"ALERT_WEBHOOK_SECRET" default:"change_me"`
	AlertTimeout       time.Duration `envconfig:"ALERT_TIMEOUT" default:"10s"`

	// Validation thresholds
	MatchupCountMin       int           `envconfig:"MATCHUP_COUNT_MIN" default:"12"`
	MatchupCountMax       int           `envconfig:"MATCHUP_COUNT_MAX" default:"16"`
	MatchupMaxAge         time.Duration `envconfig:"MATCHUP_MAX_AGE" default:"48h"`
	MinStarterCount       int           `envconfig:"MIN_STARTER_COUNT" default:"20"`
	MinCoverageRatio      float64       `envconfig:"MIN_COVERAGE_RATIO" default:"0.70"`
	MaxPassingTouchdowns  int           `envconfig:"MAX_PASSING_TOUCHDOWNS" default:"6"`
	MinAttemptsForRedZone int           `envconfig:"MIN_ATTEMPTS_FOR_RED_ZONE" default:"10"`
	RedZoneZeroTolerance  int           `envconfig:"RED_ZONE_ZERO_TOLERANCE" default:"8"`
	GameLogMaxAge         time.Duration `envconfig:"GAME_LOG_MAX_AGE" default:"72h"`
	OrphanTolerance       int           `envconfig:"ORPHAN_TOLERANCE" default:"3"`
	NameMatchThreshold    float64       `envconfig:"NAME_MATCH_THRESHOLD" default:"0.85"`

	// Loader thresholds
	LoaderMinAcceptCount int `envconfig:"LOADER_MIN_ACCEPT_COUNT" default:"12"`
	LoaderValidateMin    int `envconfig:"LOADER_VALIDATE_MIN" default:"12"`
	LoaderValidateMax    int `envconfig:"LOADER_VALIDATE_MAX" default:"17"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ScheduleAPIKey == "" {
		return fmt.Errorf("SCHEDULE_API_KEY is required")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.MatchupCountMin > c.MatchupCountMax {
		return fmt.Errorf("MATCHUP_COUNT_MIN must not exceed MATCHUP_COUNT_MAX")
	}

	if c.AlertWebhookURL != "" && c.AlertWebhookSecret == "change_me" && c.AppEnv == "production" {
		return fmt.Errorf("ALERT_WEBHOOK_SECRET must be changed in production")
	}

	return nil
}

// ValidationConfig maps the env-tunable thresholds into the validator's
// configuration structure.
func (c *Config) ValidationConfig() validate.Config {
	return validate.Config{
		MatchupCountMin:       c.MatchupCountMin,
		MatchupCountMax:       c.MatchupCountMax,
		MatchupMaxAge:         c.MatchupMaxAge,
		MinStarterCount:       c.MinStarterCount,
		MinCoverageRatio:      c.MinCoverageRatio,
		MaxPassingTouchdowns:  c.MaxPassingTouchdowns,
		MinAttemptsForRedZone: c.MinAttemptsForRedZone,
		RedZoneZeroTolerance:  c.RedZoneZeroTolerance,
		GameLogMaxAge:         c.GameLogMaxAge,
		OrphanTolerance:       c.OrphanTolerance,
		NameMatchThreshold:    c.NameMatchThreshold,
	}
}

// LoaderConfig maps the env-tunable thresholds into the loader's
// configuration structure.
func (c *Config) LoaderConfig() loader.Config {
	return loader.Config{
		MinAcceptCount: c.LoaderMinAcceptCount,
		ValidateMin:    c.LoaderValidateMin,
		ValidateMax:    c.LoaderValidateMax,
	}
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
