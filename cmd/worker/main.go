package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"nfl_v1/ingestion/internal/alert"
	"nfl_v1/ingestion/internal/cache"
	"nfl_v1/ingestion/internal/client"
	"nfl_v1/ingestion/internal/config"
	"nfl_v1/ingestion/internal/loader"
	"nfl_v1/ingestion/internal/metrics"
	"nfl_v1/ingestion/internal/repository"
	"nfl_v1/ingestion/internal/scheduler"
	"nfl_v1/ingestion/internal/validate"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting NFL v1.0 Schedule Integrity Worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize schedule API client
	apiClient := client.NewClient(
		cfg.ScheduleAPIBaseURL,
		cfg.ScheduleAPIKey,
		cfg.ScheduleAPITimeout,
	)
	log.Info().Msg("Schedule API client initialized")

	// Resolve the active season from the API when reachable; the configured
	// season is the fallback.
	if season, err := apiClient.FetchCurrentSeason(ctx); err != nil {
		log.Warn().Err(err).Int("season", cfg.CurrentSeason).Msg("Season lookup failed, using configured season")
	} else if season > 0 {
		cfg.CurrentSeason = season
		log.Info().Int("season", season).Msg("Season resolved from schedule API")
	}

	// Initialize database connection
	dbConfig := repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}

	db, err := repository.NewDatabase(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize Redis client
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
		log.Info().Msg("Redis cache connected")
	}

	// Hybrid loader: local schedule snapshot first, API as fallback
	primary := loader.NewScheduleFile(cfg.ScheduleFilePath)
	secondary := client.NewScheduleSource(apiClient, redisCache, cfg.ScheduleCacheTTL)
	hybridLoader := loader.New(primary, secondary, cfg.LoaderConfig())

	// Validator reads the same tables the ingest writes
	validator := validate.New(db.ValidationStore(), cfg.ValidationConfig())

	// Alerts go to the webhook when configured, otherwise to the log
	var sink alert.Sink
	if cfg.AlertWebhookURL != "" {
		sink = alert.NewWebhookSink(cfg.AlertWebhookURL, cfg.AlertWebhookSecret, cfg.AlertTimeout)
		log.Info().Msg("Webhook alert sink configured")
	}
	notifier := alert.NewNotifier(sink)

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, hybridLoader, db, validator, notifier)
	sched.SetWeekResolver(apiClient.FetchCurrentWeek)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
