package models

import (
	"database/sql"
	"time"
)

// Matchup represents a single scheduled NFL game within a season week.
type Matchup struct {
	ID       int       `db:"id"`
	Season   int       `db:"season"`
	Week     int       `db:"week"`
	HomeTeam string    `db:"home_team"`
	AwayTeam string    `db:"away_team"`
	GameDate time.Time `db:"game_date"`

	// ScrapedAt records when this row was last ingested. The validator's
	// freshness rule keys off the most recent value per week.
	ScrapedAt sql.NullTime `db:"scraped_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MatchupInput is used for creating/updating matchups from a source feed
type MatchupInput struct {
	Season   int    `json:"Season"`
	Week     int    `json:"Week"`
	HomeTeam string `json:"HomeTeam"`
	AwayTeam string `json:"AwayTeam"`
	DateTime string `json:"DateTime"` // ISO 8601 format
}

// ToMatchup converts MatchupInput (from a source feed) to a Matchup model
func (mi *MatchupInput) ToMatchup() *Matchup {
	m := &Matchup{
		Season:   mi.Season,
		Week:     mi.Week,
		HomeTeam: mi.HomeTeam,
		AwayTeam: mi.AwayTeam,
	}

	if gameTime, err := time.Parse(time.RFC3339, mi.DateTime); err == nil {
		m.GameDate = gameTime
	}

	return m
}
