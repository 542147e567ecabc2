package models

import (
	"database/sql"
	"time"
)

// PlayerGameLog represents one player's passing line for a single week.
// Rows are owned by the import/backfill pipeline; the validator only reads.
type PlayerGameLog struct {
	ID                int    `db:"id"`
	PlayerName        string `db:"player_name"` // canonical form
	Season            int    `db:"season"`
	Week              int    `db:"week"`
	PassingAttempts   int    `db:"passing_attempts"`
	PassingTouchdowns int    `db:"passing_touchdowns"`
	RedZonePasses     int    `db:"red_zone_passes"`

	ImportedAt sql.NullTime `db:"imported_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// RosterEntry represents a player's roster slot for a given week.
// The cross-source consistency check reconciles game logs against these.
type RosterEntry struct {
	ID         int    `db:"id"`
	PlayerName string `db:"player_name"` // canonical form
	Season     int    `db:"season"`
	Week       int    `db:"week"`
	Position   string `db:"position"`
	Status     string `db:"status"`
}

// PassPlay is a single pass attempt from the play-by-play feed, the
// second independently populated stat source.
type PassPlay struct {
	ID       int    `db:"id"`
	QBName   string `db:"qb_name"`
	Season   int    `db:"season"`
	Week     int    `db:"week"`
	PlayType string `db:"play_type"`
}

// IsStarter returns true if the roster entry holds a starting slot
func (r *RosterEntry) IsStarter() bool {
	return r.Status == "Starter"
}
