package repository

import (
	"context"
	"fmt"
	"time"

	"nfl_v1/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameLogRepository handles player game log database operations. Rows are
// written only by import/backfill; the validator reads them.
type GameLogRepository struct {
	db *Database
}

// Upsert inserts or updates a player's game log, refreshing imported_at
func (r *GameLogRepository) Upsert(ctx context.Context, gl *models.PlayerGameLog) error {
	query := `
		INSERT INTO player_game_log (
			player_name, season, week,
			passing_attempts, passing_touchdowns, red_zone_passes, imported_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (player_name, season, week) DO UPDATE SET
			passing_attempts = EXCLUDED.passing_attempts,
			passing_touchdowns = EXCLUDED.passing_touchdowns,
			red_zone_passes = EXCLUDED.red_zone_passes,
			imported_at = NOW(),
			updated_at = NOW()
		RETURNING id, imported_at, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		gl.PlayerName, gl.Season, gl.Week,
		gl.PassingAttempts, gl.PassingTouchdowns, gl.RedZonePasses,
	).Scan(&gl.ID, &gl.ImportedAt, &gl.CreatedAt, &gl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game log: %w", err)
	}

	log.Debug().
		Str("player", gl.PlayerName).
		Int("season", gl.Season).
		Int("week", gl.Week).
		Msg("Game log upserted")

	return nil
}

// GetByWeek retrieves all game logs for a season week
func (r *GameLogRepository) GetByWeek(ctx context.Context, season, week int) ([]models.PlayerGameLog, error) {
	query := `
		SELECT id, player_name, season, week,
		       passing_attempts, passing_touchdowns, red_zone_passes,
		       imported_at, created_at, updated_at
		FROM player_game_log
		WHERE season = $1 AND week = $2
		ORDER BY player_name
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get game logs by week: %w", err)
	}
	defer rows.Close()

	var logs []models.PlayerGameLog
	for rows.Next() {
		var gl models.PlayerGameLog
		err := rows.Scan(
			&gl.ID, &gl.PlayerName, &gl.Season, &gl.Week,
			&gl.PassingAttempts, &gl.PassingTouchdowns, &gl.RedZonePasses,
			&gl.ImportedAt, &gl.CreatedAt, &gl.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game log: %w", err)
		}
		logs = append(logs, gl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game logs: %w", err)
	}

	return logs, nil
}

// LatestImport returns the most recent imported_at for a season week. The
// boolean is false when the week has no timestamped rows.
func (r *GameLogRepository) LatestImport(ctx context.Context, season, week int) (time.Time, bool, error) {
	query := `
		SELECT MAX(imported_at)
		FROM player_game_log
		WHERE season = $1 AND week = $2 AND imported_at IS NOT NULL
	`

	var latest *time.Time
	err := r.db.Pool.QueryRow(ctx, query, season, week).Scan(&latest)
	if err == pgx.ErrNoRows || (err == nil && latest == nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get latest game log import: %w", err)
	}

	return *latest, true, nil
}
