package repository

import (
	"context"
	"fmt"

	"nfl_v1/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// RosterRepository handles weekly roster database operations
type RosterRepository struct {
	db *Database
}

// Upsert inserts or updates a roster entry
func (r *RosterRepository) Upsert(ctx context.Context, entry *models.RosterEntry) error {
	query := `
		INSERT INTO player_roster (player_name, season, week, position, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_name, season, week) DO UPDATE SET
			position = EXCLUDED.position,
			status = EXCLUDED.status
		RETURNING id
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		entry.PlayerName, entry.Season, entry.Week, entry.Position, entry.Status,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert roster entry: %w", err)
	}

	log.Debug().
		Str("player", entry.PlayerName).
		Int("season", entry.Season).
		Int("week", entry.Week).
		Str("position", entry.Position).
		Msg("Roster entry upserted")

	return nil
}

// NamesByWeek returns the distinct player names rostered for a season week
func (r *RosterRepository) NamesByWeek(ctx context.Context, season, week int) ([]string, error) {
	query := `
		SELECT DISTINCT player_name
		FROM player_roster
		WHERE season = $1 AND week = $2
		ORDER BY player_name
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan roster name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster names: %w", err)
	}

	return names, nil
}

// GetByWeek retrieves roster entries for a season week
func (r *RosterRepository) GetByWeek(ctx context.Context, season, week int) ([]models.RosterEntry, error) {
	query := `
		SELECT id, player_name, season, week, position, status
		FROM player_roster
		WHERE season = $1 AND week = $2
		ORDER BY player_name
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster by week: %w", err)
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		err := rows.Scan(&e.ID, &e.PlayerName, &e.Season, &e.Week, &e.Position, &e.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster entries: %w", err)
	}

	return entries, nil
}
