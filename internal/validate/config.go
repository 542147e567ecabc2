package validate

import "time"

// WeekMin and WeekMax bound the NFL regular-season week range.
const (
	WeekMin = 1
	WeekMax = 18
)

// Config holds every validation threshold. All rules read from here rather
// than from package constants so tests and operators can tune them without
// touching global state.
type Config struct {
	// Matchup completeness: bye weeks make fewer than 16 games possible,
	// but no week is empty or doubled.
	MatchupCountMin int
	MatchupCountMax int

	// MatchupMaxAge bounds how stale the most recent matchup scrape for a
	// week may be before the week is flagged.
	MatchupMaxAge time.Duration

	// MinStarterCount is the minimum distinct players with a game log for
	// a week (roughly: every team fields a starting QB, plus injuries).
	MinStarterCount int

	// MinCoverageRatio is the minimum game-log/roster coverage ratio.
	// Reserved: read by no rule yet, kept so operators can pre-tune it.
	MinCoverageRatio float64

	// MaxPassingTouchdowns is the plausibility ceiling for a single
	// player-week. Negative values are always forbidden.
	MaxPassingTouchdowns int

	// MinAttemptsForRedZone is the attempt volume below which a zero
	// red-zone-pass count is not suspicious.
	MinAttemptsForRedZone int

	// RedZoneZeroTolerance caps how many qualifying players may have zero
	// red zone passes before the week is flagged. A real possibility, so
	// tolerated up to the cap rather than hard-failed.
	RedZoneZeroTolerance int

	// GameLogMaxAge bounds how stale the game-log import for a week may be.
	GameLogMaxAge time.Duration

	// OrphanTolerance caps cross-source orphans per week before flagging,
	// tolerating backup players who log stats without a roster row.
	OrphanTolerance int

	// NameMatchThreshold is the fuzzy-similarity ratio used when absorbing
	// spelling drift during cross-source reconciliation.
	NameMatchThreshold float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MatchupCountMin:       12,
		MatchupCountMax:       16,
		MatchupMaxAge:         48 * time.Hour,
		MinStarterCount:       20,
		MinCoverageRatio:      0.70,
		MaxPassingTouchdowns:  6,
		MinAttemptsForRedZone: 10,
		RedZoneZeroTolerance:  8,
		GameLogMaxAge:         72 * time.Hour,
		OrphanTolerance:       3,
		NameMatchThreshold:    0.85,
	}
}
