package repository

import (
	"context"
	"time"

	"nfl_v1/ingestion/internal/models"
)

// ValidationStore exposes the read-only query surface the data-quality
// validator consumes, backed by the per-table repositories. It satisfies
// validate.Store.
type ValidationStore struct {
	db *Database
}

// ValidationStore returns the validator-facing read surface.
func (db *Database) ValidationStore() *ValidationStore {
	return &ValidationStore{db: db}
}

// MatchupCount returns the matchup row count for a season week.
func (s *ValidationStore) MatchupCount(ctx context.Context, season, week int) (int, error) {
	return s.db.Matchups.CountByWeek(ctx, season, week)
}

// LatestMatchupScrape returns the most recent matchup ingestion timestamp.
func (s *ValidationStore) LatestMatchupScrape(ctx context.Context, season, week int) (time.Time, bool, error) {
	return s.db.Matchups.LatestScrape(ctx, season, week)
}

// GameLogs returns all game logs for a season week.
func (s *ValidationStore) GameLogs(ctx context.Context, season, week int) ([]models.PlayerGameLog, error) {
	return s.db.GameLogs.GetByWeek(ctx, season, week)
}

// LatestGameLogImport returns the most recent game-log import timestamp.
func (s *ValidationStore) LatestGameLogImport(ctx context.Context, season, week int) (time.Time, bool, error) {
	return s.db.GameLogs.LatestImport(ctx, season, week)
}

// RosterNames returns the distinct rostered names for a season week.
func (s *ValidationStore) RosterNames(ctx context.Context, season, week int) ([]string, error) {
	return s.db.Rosters.NamesByWeek(ctx, season, week)
}

// PassPlayQBNames returns the distinct passing QBs for a season week.
func (s *ValidationStore) PassPlayQBNames(ctx context.Context, season, week int) ([]string, error) {
	return s.db.Plays.QBNamesByWeek(ctx, season, week)
}
