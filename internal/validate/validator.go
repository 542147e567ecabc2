// Package validate decides whether the data collected for a season week is
// usable by downstream analytics: complete, fresh, and consistent across
// independently populated sources. Every violated rule is reported, never
// just the first; findings are values collected into a Report, not errors.
package validate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"nfl_v1/ingestion/internal/models"
	"nfl_v1/ingestion/internal/names"

	"github.com/rs/zerolog/log"
)

// Store is the read-only query surface the validator needs. The boolean
// returns on the timestamp lookups distinguish "no rows" from a zero time.
type Store interface {
	MatchupCount(ctx context.Context, season, week int) (int, error)
	LatestMatchupScrape(ctx context.Context, season, week int) (time.Time, bool, error)
	GameLogs(ctx context.Context, season, week int) ([]models.PlayerGameLog, error)
	LatestGameLogImport(ctx context.Context, season, week int) (time.Time, bool, error)
	RosterNames(ctx context.Context, season, week int) ([]string, error)
	PassPlayQBNames(ctx context.Context, season, week int) ([]string, error)
}

// Validator evaluates data-quality rules against the store. It keeps no
// state between calls; every call reads the store fresh.
type Validator struct {
	store Store
	cfg   Config
	now   func() time.Time
}

// New creates a validator with the given thresholds.
func New(store Store, cfg Config) *Validator {
	return &Validator{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// ValidateWeek checks matchup completeness and freshness for one week.
//
// Rules evaluate independently: a store failure in one rule is recorded and
// the remaining rules still run, so the report is as complete as the store
// allows. The returned error is non-nil when any rule could not read the
// store; the partial report is still returned alongside it.
func (v *Validator) ValidateWeek(ctx context.Context, season, week int) (*Report, error) {
	var issues []string
	var errs []error

	count, err := v.store.MatchupCount(ctx, season, week)
	if err != nil {
		errs = append(errs, fmt.Errorf("matchup count for week %d: %w", week, err))
	} else {
		if count < v.cfg.MatchupCountMin {
			issues = append(issues, fmt.Sprintf(
				"insufficient matchups: week %d has %d, expected at least %d",
				week, count, v.cfg.MatchupCountMin))
		}
		if count > v.cfg.MatchupCountMax {
			issues = append(issues, fmt.Sprintf(
				"too many matchups: week %d has %d, expected at most %d",
				week, count, v.cfg.MatchupCountMax))
		}
	}

	scrapedAt, found, err := v.store.LatestMatchupScrape(ctx, season, week)
	if err != nil {
		errs = append(errs, fmt.Errorf("matchup scrape time for week %d: %w", week, err))
	} else if found {
		// Missing rows are already reported by the count rule; the
		// freshness rule only fires when a timestamp exists.
		if age := v.now().Sub(scrapedAt); age > v.cfg.MatchupMaxAge {
			issues = append(issues, fmt.Sprintf(
				"stale matchups: week %d last scraped %s ago (bound %s)",
				week, age.Round(time.Hour), v.cfg.MatchupMaxAge))
		}
	}

	return newReport(week, issues), errors.Join(errs...)
}

// ValidateStatsCompleteness checks the player-stats source for one week:
// distinct-player coverage, red-zone plausibility, forbidden touchdown
// values, and import freshness.
func (v *Validator) ValidateStatsCompleteness(ctx context.Context, season, week int) (*Report, error) {
	var issues []string
	var errs []error

	logs, err := v.store.GameLogs(ctx, season, week)
	if err != nil {
		errs = append(errs, fmt.Errorf("game logs for week %d: %w", week, err))
	} else {
		distinct := make(map[string]struct{}, len(logs))
		redZoneZeros := 0
		for _, gl := range logs {
			distinct[gl.PlayerName] = struct{}{}
			if gl.PassingAttempts >= v.cfg.MinAttemptsForRedZone && gl.RedZonePasses == 0 {
				redZoneZeros++
			}
			if gl.PassingTouchdowns < 0 || gl.PassingTouchdowns > v.cfg.MaxPassingTouchdowns {
				issues = append(issues, fmt.Sprintf(
					"implausible touchdown count: %s week %d has %d passing TDs",
					gl.PlayerName, week, gl.PassingTouchdowns))
			}
		}

		if len(distinct) < v.cfg.MinStarterCount {
			issues = append(issues, fmt.Sprintf(
				"insufficient player coverage: week %d has %d distinct players, expected at least %d",
				week, len(distinct), v.cfg.MinStarterCount))
		}

		// Zero red zone passes on real volume happens, so only flag when
		// it stops looking like noise.
		if redZoneZeros > v.cfg.RedZoneZeroTolerance {
			issues = append(issues, fmt.Sprintf(
				"suspicious red zone data: week %d has %d players with %d+ attempts and zero red zone passes (tolerance %d)",
				week, redZoneZeros, v.cfg.MinAttemptsForRedZone, v.cfg.RedZoneZeroTolerance))
		}
	}

	importedAt, found, err := v.store.LatestGameLogImport(ctx, season, week)
	if err != nil {
		errs = append(errs, fmt.Errorf("game log import time for week %d: %w", week, err))
	} else if found {
		if age := v.now().Sub(importedAt); age > v.cfg.GameLogMaxAge {
			issues = append(issues, fmt.Sprintf(
				"stale game logs: week %d last imported %s ago (bound %s)",
				week, age.Round(time.Hour), v.cfg.GameLogMaxAge))
		}
	}

	return newReport(week, issues), errors.Join(errs...)
}

// ValidateCrossSourceConsistency reconciles the game-log table against the
// roster and play-by-play tables for one week. A game-log entry with no
// exact roster match is an orphan only if no roster name for the week
// fuzzy-matches it — spelling and suffix drift is absorbed rather than
// mistaken for a data gap. Orphans are tolerated up to a cap (backups log
// stats without roster rows); one source being populated while the other is
// completely empty is always an issue, since that is a broken ingestion
// path, not natural sparsity.
func (v *Validator) ValidateCrossSourceConsistency(ctx context.Context, season, week int) (*Report, error) {
	var issues []string
	var errs []error

	logs, logsErr := v.store.GameLogs(ctx, season, week)
	if logsErr != nil {
		errs = append(errs, fmt.Errorf("game logs for week %d: %w", week, logsErr))
	}
	rosterNames, rosterErr := v.store.RosterNames(ctx, season, week)
	if rosterErr != nil {
		errs = append(errs, fmt.Errorf("roster names for week %d: %w", week, rosterErr))
	}

	if logsErr == nil && rosterErr == nil {
		logNames := make([]string, 0, len(logs))
		for _, gl := range logs {
			logNames = append(logNames, gl.PlayerName)
		}

		switch {
		case len(logNames) > 0 && len(rosterNames) == 0:
			issues = append(issues, fmt.Sprintf(
				"source imbalance: week %d has %d game logs but an empty roster",
				week, len(logNames)))
		case len(rosterNames) > 0 && len(logNames) == 0:
			issues = append(issues, fmt.Sprintf(
				"source imbalance: week %d has %d roster entries but no game logs",
				week, len(rosterNames)))
		default:
			orphans := v.orphanNames(logNames, rosterNames)
			if len(orphans) > v.cfg.OrphanTolerance {
				issues = append(issues, fmt.Sprintf(
					"cross-source orphans: week %d has %d game-log players missing from roster (tolerance %d): %s",
					week, len(orphans), v.cfg.OrphanTolerance, strings.Join(orphans, ", ")))
			}
		}
	}

	// Play-by-play is the second independent stat source: every QB who
	// threw a pass should have a game log.
	qbNames, err := v.store.PassPlayQBNames(ctx, season, week)
	if err != nil {
		errs = append(errs, fmt.Errorf("play-by-play QBs for week %d: %w", week, err))
	} else if logsErr == nil && len(qbNames) > 0 {
		logNames := make([]string, 0, len(logs))
		for _, gl := range logs {
			logNames = append(logNames, gl.PlayerName)
		}
		if len(logNames) == 0 {
			issues = append(issues, fmt.Sprintf(
				"source imbalance: week %d has %d play-by-play QBs but no game logs",
				week, len(qbNames)))
		} else if orphans := v.orphanNames(qbNames, logNames); len(orphans) > v.cfg.OrphanTolerance {
			issues = append(issues, fmt.Sprintf(
				"cross-source orphans: week %d has %d play-by-play QBs missing from game logs (tolerance %d): %s",
				week, len(orphans), v.cfg.OrphanTolerance, strings.Join(orphans, ", ")))
		}
	}

	return newReport(week, issues), errors.Join(errs...)
}

// orphanNames returns the entries of src with neither an exact nor a fuzzy
// match in ref, sorted for stable reporting. Names are compared in
// normalized form.
func (v *Validator) orphanNames(src, ref []string) []string {
	exact := make(map[string]struct{}, len(ref))
	normalizedRef := make([]string, 0, len(ref))
	for _, r := range ref {
		n := names.Normalize(r)
		exact[n] = struct{}{}
		normalizedRef = append(normalizedRef, n)
	}

	seen := make(map[string]struct{}, len(src))
	var orphans []string
	for _, s := range src {
		n := names.Normalize(s)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}

		if _, ok := exact[n]; ok {
			continue
		}
		matched := false
		for _, r := range normalizedRef {
			if names.Similar(n, r, v.cfg.NameMatchThreshold) {
				matched = true
				break
			}
		}
		if !matched {
			orphans = append(orphans, n)
		}
	}

	sort.Strings(orphans)
	return orphans
}

// ValidateAllWeeks runs ValidateWeek across the full week range and returns
// a sparse map from failing week to its issues; absence of a key means the
// week passed. The first store failure aborts the sweep, since no
// determination is possible without the store.
func (v *Validator) ValidateAllWeeks(ctx context.Context, season int) (map[int][]string, error) {
	failing := make(map[int][]string)
	for week := WeekMin; week <= WeekMax; week++ {
		report, err := v.ValidateWeek(ctx, season, week)
		if err != nil {
			return failing, fmt.Errorf("validation sweep aborted at week %d: %w", week, err)
		}
		if !report.Valid {
			failing[week] = report.Issues
		}
	}

	log.Debug().Int("season", season).Int("failing_weeks", len(failing)).Msg("Season sweep complete")
	return failing, nil
}

// SummaryReport aggregates the season's findings into an ordered, operator-
// readable block of lines. It is intended for humans; nothing downstream
// should branch on its format.
func (v *Validator) SummaryReport(ctx context.Context, season int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Data quality summary for season %d\n", season)
	fmt.Fprintf(&b, "Generated at %s\n\n", v.now().UTC().Format(time.RFC3339))

	failing, err := v.ValidateAllWeeks(ctx, season)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(&b, "Matchup completeness: %d failing week(s)\n", len(failing))
	for _, week := range sortedKeys(failing) {
		for _, issue := range failing[week] {
			fmt.Fprintf(&b, "  week %2d: %s\n", week, issue)
		}
	}

	b.WriteString("\nStats completeness:\n")
	statsFailures := 0
	for week := WeekMin; week <= WeekMax; week++ {
		report, err := v.ValidateStatsCompleteness(ctx, season, week)
		if err != nil {
			return "", err
		}
		if !report.Valid {
			statsFailures++
			for _, issue := range report.Issues {
				fmt.Fprintf(&b, "  week %2d: %s\n", week, issue)
			}
		}
	}
	if statsFailures == 0 {
		b.WriteString("  all weeks ok\n")
	}

	b.WriteString("\nCross-source consistency:\n")
	crossFailures := 0
	for week := WeekMin; week <= WeekMax; week++ {
		report, err := v.ValidateCrossSourceConsistency(ctx, season, week)
		if err != nil {
			return "", err
		}
		if !report.Valid {
			crossFailures++
			for _, issue := range report.Issues {
				fmt.Fprintf(&b, "  week %2d: %s\n", week, issue)
			}
		}
	}
	if crossFailures == 0 {
		b.WriteString("  all weeks ok\n")
	}

	return b.String(), nil
}

func sortedKeys(m map[int][]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
