package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"nfl_v1/ingestion/internal/models"
)

// ScheduleFile is the primary matchup source: a bundled JSON snapshot of the
// season schedule, keyed by week number. It reads from disk only, so it
// works offline, but it can go stale across seasons; the loader's acceptance
// floor catches that.
//
// File shape:
//
//	{"1": [{"Season":2025,"Week":1,"HomeTeam":"KC","AwayTeam":"BAL","DateTime":"..."}], "2": [...]}
type ScheduleFile struct {
	path string
}

// NewScheduleFile creates a source reading the snapshot at path.
func NewScheduleFile(path string) *ScheduleFile {
	return &ScheduleFile{path: path}
}

// Name identifies the source in fallback logs.
func (s *ScheduleFile) Name() string {
	return "schedule-file"
}

// Fetch reads the snapshot and returns the matchups for the week. Missing
// file, malformed JSON, and a missing week key are all errors; the loader
// turns them into fallbacks.
func (s *ScheduleFile) Fetch(_ context.Context, season, week int) ([]*models.Matchup, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var byWeek map[string][]models.MatchupInput
	if err := json.Unmarshal(data, &byWeek); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	inputs, ok := byWeek[strconv.Itoa(week)]
	if !ok {
		return nil, fmt.Errorf("schedule file has no week %d", week)
	}

	matchups := make([]*models.Matchup, 0, len(inputs))
	for _, in := range inputs {
		if in.Season != 0 && in.Season != season {
			continue
		}
		m := in.ToMatchup()
		m.Season = season
		m.Week = week
		matchups = append(matchups, m)
	}

	return matchups, nil
}
