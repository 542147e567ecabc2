package repository

import (
	"context"
	"fmt"
	"time"

	"nfl_v1/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// MatchupRepository handles matchup database operations
type MatchupRepository struct {
	db *Database
}

// Upsert inserts or updates a matchup, refreshing scraped_at
func (r *MatchupRepository) Upsert(ctx context.Context, m *models.Matchup) error {
	query := `
		INSERT INTO matchups (season, week, home_team, away_team, game_date, scraped_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (season, week, home_team, away_team) DO UPDATE SET
			game_date = EXCLUDED.game_date,
			scraped_at = NOW(),
			updated_at = NOW()
		RETURNING id, scraped_at, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		m.Season, m.Week, m.HomeTeam, m.AwayTeam, m.GameDate,
	).Scan(&m.ID, &m.ScrapedAt, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert matchup: %w", err)
	}

	log.Debug().
		Int("season", m.Season).
		Int("week", m.Week).
		Str("home", m.HomeTeam).
		Str("away", m.AwayTeam).
		Msg("Matchup upserted")

	return nil
}

// GetByWeek retrieves matchups for a specific season and week
func (r *MatchupRepository) GetByWeek(ctx context.Context, season, week int) ([]*models.Matchup, error) {
	query := `
		SELECT id, season, week, home_team, away_team, game_date, scraped_at, created_at, updated_at
		FROM matchups
		WHERE season = $1 AND week = $2
		ORDER BY game_date
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get matchups by week: %w", err)
	}
	defer rows.Close()

	var matchups []*models.Matchup
	for rows.Next() {
		var m models.Matchup
		err := rows.Scan(
			&m.ID, &m.Season, &m.Week, &m.HomeTeam, &m.AwayTeam,
			&m.GameDate, &m.ScrapedAt, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matchup: %w", err)
		}
		matchups = append(matchups, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matchups: %w", err)
	}

	return matchups, nil
}

// CountByWeek returns the number of matchups for a season week
func (r *MatchupRepository) CountByWeek(ctx context.Context, season, week int) (int, error) {
	query := `SELECT COUNT(*) FROM matchups WHERE season = $1 AND week = $2`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, season, week).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matchups: %w", err)
	}

	return count, nil
}

// LatestScrape returns the most recent scraped_at for a season week. The
// boolean is false when the week has no timestamped rows.
func (r *MatchupRepository) LatestScrape(ctx context.Context, season, week int) (time.Time, bool, error) {
	query := `
		SELECT MAX(scraped_at)
		FROM matchups
		WHERE season = $1 AND week = $2 AND scraped_at IS NOT NULL
	`

	var latest *time.Time
	err := r.db.Pool.QueryRow(ctx, query, season, week).Scan(&latest)
	if err == pgx.ErrNoRows || (err == nil && latest == nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get latest matchup scrape: %w", err)
	}

	return *latest, true, nil
}
