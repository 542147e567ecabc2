package repository

import (
	"context"
	"fmt"
)

// PlayByPlayRepository handles the play-by-play read surface used by the
// cross-source consistency check.
type PlayByPlayRepository struct {
	db *Database
}

// QBNamesByWeek returns the distinct quarterbacks credited with a pass play
// for a season week.
func (r *PlayByPlayRepository) QBNamesByWeek(ctx context.Context, season, week int) ([]string, error) {
	query := `
		SELECT DISTINCT qb_name
		FROM play_by_play
		WHERE season = $1 AND week = $2 AND play_type = 'pass'
		ORDER BY qb_name
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get play-by-play QBs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan QB name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating QB names: %w", err)
	}

	return names, nil
}
