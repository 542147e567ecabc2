// Package scheduler runs the periodic ingestion and audit jobs. Each job is
// guarded by its own cross-process lock so overlapping schedules (or a
// second worker on the same host) cannot double-write.
package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"nfl_v1/ingestion/internal/alert"
	"nfl_v1/ingestion/internal/config"
	"nfl_v1/ingestion/internal/loader"
	"nfl_v1/ingestion/internal/lock"
	"nfl_v1/ingestion/internal/metrics"
	"nfl_v1/ingestion/internal/repository"
	"nfl_v1/ingestion/internal/validate"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler manages the background jobs:
// - weekly matchup ingest (load, persist, validate, alert)
// - nightly season-wide data-quality audit
type Scheduler struct {
	cfg       *config.Config
	loader    *loader.HybridLoader
	db        *repository.Database
	validator *validate.Validator
	notifier  *alert.Notifier
	cron      *cron.Cron

	// weekFn, when set, resolves the active regular-season week (usually
	// the schedule API's CurrentWeek endpoint). Falls back to the
	// date-derived week when unset or failing.
	weekFn func(ctx context.Context) (int, error)
}

// SetWeekResolver installs an external source for the active week
func (s *Scheduler) SetWeekResolver(fn func(ctx context.Context) (int, error)) {
	s.weekFn = fn
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cfg *config.Config,
	ldr *loader.HybridLoader,
	db *repository.Database,
	validator *validate.Validator,
	notifier *alert.Notifier,
) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		loader:    ldr,
		db:        db,
		validator: validator,
		notifier:  notifier,
		cron:      cron.New(),
	}
}

// Start registers and starts the cron jobs
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.IngestCron, func() {
		if err := s.RunIngest(ctx); err != nil {
			log.Error().Err(err).Msg("Weekly ingest failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule weekly ingest: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.AuditCron, func() {
		if err := s.RunAudit(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly audit failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly audit: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("ingest", s.cfg.IngestCron).
		Str("audit", s.cfg.AuditCron).
		Msg("Jobs scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Info().Msg("Scheduler stopped")
}

// RunIngest loads the current week's matchups, persists them, and validates
// the week just written plus its neighbors. The job lock makes a concurrent
// run exit cleanly instead of double-writing; the lock is held for the
// whole write.
func (s *Scheduler) RunIngest(ctx context.Context) error {
	jobLock := lock.New(filepath.Join(s.cfg.LockDir, "ingest-matchups.lock"))

	ran, err := jobLock.WithLock(func() error {
		return s.ingestCurrentWeek(ctx)
	})
	if err != nil {
		metrics.RecordLockAttempt("ingest-matchups", ran)
		return err
	}
	metrics.RecordLockAttempt("ingest-matchups", ran)
	if !ran {
		log.Info().Msg("Ingest already in flight elsewhere, skipping this run")
		return nil
	}

	return nil
}

func (s *Scheduler) ingestCurrentWeek(ctx context.Context) error {
	start := time.Now()
	season := s.cfg.CurrentSeason
	week := s.resolveWeek(ctx, start)

	log.Info().Int("season", season).Int("week", week).Msg("Starting weekly ingest")

	records, err := s.loader.Load(ctx, season, week)
	if err != nil {
		metrics.RecordIngest("error", time.Since(start).Seconds())
		return fmt.Errorf("failed to load week %d: %w", week, err)
	}

	if ok, issues := s.loader.Validate(records, week); !ok {
		// Both sources exhausted or degraded; nothing safe to persist.
		metrics.RecordIngest("empty", time.Since(start).Seconds())
		s.notifier.ReportFailure(ctx, season, &validate.Report{Week: week, Issues: issues})
		return fmt.Errorf("week %d load unusable: %v", week, issues)
	} else if len(issues) > 0 {
		for _, issue := range issues {
			log.Warn().Int("week", week).Msg(issue)
		}
	}

	saved := 0
	for _, m := range records {
		if err := s.db.Matchups.Upsert(ctx, m); err != nil {
			log.Error().Err(err).
				Str("home", m.HomeTeam).
				Str("away", m.AwayTeam).
				Msg("Failed to save matchup")
			continue
		}
		saved++
	}
	log.Info().Int("count", saved).Int("week", week).Msg("Matchups saved to database")
	metrics.MatchupsIngested.Add(float64(saved))

	// Validate the week just written and its neighbors; late corrections
	// land in adjacent weeks.
	for _, w := range neighborWeeks(week) {
		s.validateAndReport(ctx, season, w)
	}

	metrics.RecordIngest("success", time.Since(start).Seconds())
	log.Info().
		Int("week", week).
		Dur("duration", time.Since(start)).
		Msg("Weekly ingest complete")
	return nil
}

// validateAndReport runs the full rule set for one week and forwards
// failures to the alert sink.
func (s *Scheduler) validateAndReport(ctx context.Context, season, week int) {
	checks := []struct {
		name string
		run  func(context.Context, int, int) (*validate.Report, error)
	}{
		{"matchups", s.validator.ValidateWeek},
		{"stats", s.validator.ValidateStatsCompleteness},
		{"cross_source", s.validator.ValidateCrossSourceConsistency},
	}

	for _, check := range checks {
		start := time.Now()
		report, err := check.run(ctx, season, week)
		if err != nil {
			log.Error().Err(err).
				Str("check", check.name).
				Int("week", week).
				Msg("Validation could not read the store")
		}
		if report != nil {
			metrics.RecordValidation(check.name, len(report.Issues), time.Since(start).Seconds())
			if !report.Valid {
				s.notifier.ReportFailure(ctx, season, report)
			}
		}
	}
}

// RunAudit sweeps the whole season and forwards the summary block. It holds
// its own lock, independent of the ingest job's.
func (s *Scheduler) RunAudit(ctx context.Context) error {
	jobLock := lock.New(filepath.Join(s.cfg.LockDir, "audit-season.lock"))

	ran, err := jobLock.WithLock(func() error {
		season := s.cfg.CurrentSeason
		summary, err := s.validator.SummaryReport(ctx, season)
		if err != nil {
			return fmt.Errorf("season audit failed: %w", err)
		}

		log.Info().Int("season", season).Msg("Season audit complete")
		s.notifier.ReportSummary(ctx, season, summary)
		return nil
	})
	metrics.RecordLockAttempt("audit-season", ran)
	if err != nil {
		return err
	}
	if !ran {
		log.Info().Msg("Audit already in flight elsewhere, skipping this run")
	}
	return nil
}

// resolveWeek prefers the external resolver and falls back to the
// date-derived week.
func (s *Scheduler) resolveWeek(ctx context.Context, now time.Time) int {
	if s.weekFn != nil {
		week, err := s.weekFn(ctx)
		if err == nil && week >= validate.WeekMin && week <= validate.WeekMax {
			return week
		}
		if err != nil {
			log.Warn().Err(err).Msg("Week lookup failed, deriving week from date")
		}
	}
	return currentWeek(now)
}

// currentWeek approximates the regular-season week from the date. Week 1
// starts the first Thursday of September.
func currentWeek(now time.Time) int {
	seasonStart := time.Date(now.Year(), time.September, 1, 0, 0, 0, 0, time.UTC)
	for seasonStart.Weekday() != time.Thursday {
		seasonStart = seasonStart.AddDate(0, 0, 1)
	}

	if now.Before(seasonStart) {
		return validate.WeekMin
	}

	week := int(now.Sub(seasonStart).Hours()/(24*7)) + 1
	if week > validate.WeekMax {
		return validate.WeekMax
	}
	return week
}

// neighborWeeks returns the week plus its in-range neighbors, ordered.
func neighborWeeks(week int) []int {
	var weeks []int
	for w := week - 1; w <= week+1; w++ {
		if w >= validate.WeekMin && w <= validate.WeekMax {
			weeks = append(weeks, w)
		}
	}
	return weeks
}
