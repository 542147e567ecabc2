// Package loader resolves a week's matchup set by trying sources in a fixed
// priority order, each gated by a record-count acceptance policy. The
// primary source is cheap and offline-capable but can go stale across
// seasons; the secondary is authoritative but subject to network failure.
// Trying cheap-first with a hard floor avoids unnecessary network calls
// while never silently returning a degraded dataset.
package loader

import (
	"context"
	"fmt"

	"nfl_v1/ingestion/internal/metrics"
	"nfl_v1/ingestion/internal/models"
	"nfl_v1/ingestion/internal/validate"

	"github.com/rs/zerolog/log"
)

// Source supplies matchups for one week. Fetch may fail on I/O or parse
// errors; the loader treats any failure as a fallback trigger, never a
// caller-visible error.
type Source interface {
	Name() string
	Fetch(ctx context.Context, season, week int) ([]*models.Matchup, error)
}

// Config holds the loader's acceptance and post-hoc validation thresholds.
type Config struct {
	// MinAcceptCount is the acceptance floor inside the fallback state
	// machine: a source's result is usable only at or above it.
	MinAcceptCount int

	// ValidateMin and ValidateMax bound the post-hoc Validate check run by
	// callers after loading. ValidateMax overruns are warning-level, not
	// rejections.
	ValidateMin int
	ValidateMax int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinAcceptCount: 12,
		ValidateMin:    12,
		ValidateMax:    17,
	}
}

// HybridLoader tries the primary source, then the secondary, returning the
// first accepted result. Callers get one deterministic answer without
// knowing which source served it.
type HybridLoader struct {
	primary   Source
	secondary Source
	cfg       Config
}

// New creates a loader over the given sources.
func New(primary, secondary Source, cfg Config) *HybridLoader {
	return &HybridLoader{
		primary:   primary,
		secondary: secondary,
		cfg:       cfg,
	}
}

// Load returns the best available matchup set for the week. Source failures
// and short results fall through to the next source; when every source is
// exhausted the result is an empty slice, never an error. The error return
// fires only for a malformed week key, which is a programming-contract
// violation rather than a source condition.
func (l *HybridLoader) Load(ctx context.Context, season, week int) ([]*models.Matchup, error) {
	if week < validate.WeekMin || week > validate.WeekMax {
		return nil, fmt.Errorf("invalid week: %d (expected %d..%d)", week, validate.WeekMin, validate.WeekMax)
	}

	if records, ok := l.try(ctx, l.primary, season, week); ok {
		metrics.RecordLoaderResult(l.primary.Name())
		return records, nil
	}
	metrics.LoaderFallbacksTotal.Inc()
	if records, ok := l.try(ctx, l.secondary, season, week); ok {
		metrics.RecordLoaderResult(l.secondary.Name())
		return records, nil
	}

	log.Warn().
		Int("season", season).
		Int("week", week).
		Msg("All matchup sources exhausted, returning empty set")
	metrics.RecordLoaderResult("none")
	return []*models.Matchup{}, nil
}

// try fetches from one source and applies the acceptance policy, logging
// the reason for any rejection.
func (l *HybridLoader) try(ctx context.Context, src Source, season, week int) ([]*models.Matchup, bool) {
	records, err := src.Fetch(ctx, season, week)
	if err != nil {
		log.Warn().
			Err(err).
			Str("source", src.Name()).
			Int("week", week).
			Msg("Matchup source failed, falling back")
		return nil, false
	}

	if len(records) < l.cfg.MinAcceptCount {
		log.Warn().
			Str("source", src.Name()).
			Int("week", week).
			Int("count", len(records)).
			Int("floor", l.cfg.MinAcceptCount).
			Msg("Matchup source below acceptance floor, falling back")
		return nil, false
	}

	log.Info().
		Str("source", src.Name()).
		Int("week", week).
		Int("count", len(records)).
		Msg("Matchups loaded")
	return records, true
}

// Validate is the caller's post-hoc sanity check on a loaded record set.
// It does not gate source selection; that happens inside Load with the
// tighter acceptance floor. Counts above ValidateMax are anomalies worth an
// operator's attention but not grounds for rejection.
func (l *HybridLoader) Validate(records []*models.Matchup, week int) (bool, []string) {
	var issues []string
	valid := true

	if len(records) < l.cfg.ValidateMin {
		valid = false
		issues = append(issues, fmt.Sprintf(
			"week %d loaded only %d matchups, expected at least %d",
			week, len(records), l.cfg.ValidateMin))
	}
	if len(records) > l.cfg.ValidateMax {
		issues = append(issues, fmt.Sprintf(
			"warning: week %d loaded %d matchups, more than the expected maximum %d",
			week, len(records), l.cfg.ValidateMax))
	}

	return valid, issues
}
