// Command validate runs the full data-quality rule set on demand and prints
// the season summary. Useful for operators checking the database before a
// model run, without waiting for the nightly audit.
package main

import (
	"context"
	"flag"
	"fmt"

	"nfl_v1/ingestion/internal/config"
	"nfl_v1/ingestion/internal/repository"
	"nfl_v1/ingestion/internal/validate"

	"github.com/rs/zerolog/log"
)

func main() {
	week := flag.Int("week", 0, "validate a single week instead of the whole season")
	season := flag.Int("season", 0, "season to validate (defaults to CURRENT_SEASON)")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	if *season == 0 {
		*season = cfg.CurrentSeason
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     fmt.Sprintf("%d", cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	validator := validate.New(db.ValidationStore(), cfg.ValidationConfig())

	if *week != 0 {
		runWeek(ctx, validator, *season, *week)
		return
	}

	summary, err := validator.SummaryReport(ctx, *season)
	if err != nil {
		log.Fatal().Err(err).Msg("Season validation failed")
	}
	fmt.Println(summary)
}

// runWeek prints every rule's result for one week.
func runWeek(ctx context.Context, validator *validate.Validator, season, week int) {
	checks := []struct {
		name string
		run  func(context.Context, int, int) (*validate.Report, error)
	}{
		{"matchups", validator.ValidateWeek},
		{"stats completeness", validator.ValidateStatsCompleteness},
		{"cross-source consistency", validator.ValidateCrossSourceConsistency},
	}

	for _, check := range checks {
		report, err := check.run(ctx, season, week)
		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Check could not read the store")
		}
		if report == nil {
			continue
		}
		if report.Valid {
			fmt.Printf("week %d %s: OK\n", week, check.name)
			continue
		}
		fmt.Printf("week %d %s: FAILED\n", week, check.name)
		for _, issue := range report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
}
