package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"nfl_v1/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource returns a fixed result or error and counts its calls.
type fakeSource struct {
	name    string
	records []*models.Matchup
	err     error
	calls   int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, _, _ int) ([]*models.Matchup, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// fakeMatchups builds n distinct matchups for one week.
func fakeMatchups(n int) []*models.Matchup {
	out := make([]*models.Matchup, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &models.Matchup{
			Season:   2025,
			Week:     1,
			HomeTeam: fmt.Sprintf("HOME%02d", i),
			AwayTeam: fmt.Sprintf("AWAY%02d", i),
		})
	}
	return out
}

func TestLoad_PrimaryWinsWhenSufficient(t *testing.T) {
	primary := &fakeSource{name: "primary", records: fakeMatchups(12)}
	secondary := &fakeSource{name: "secondary", records: fakeMatchups(16)}
	l := New(primary, secondary, DefaultConfig())

	records, err := l.Load(context.Background(), 2025, 1)
	require.NoError(t, err)
	assert.Len(t, records, 12, "Primary result at the floor is accepted")
	assert.Equal(t, 0, secondary.calls, "Secondary is never consulted when primary suffices")
}

func TestLoad_FallsBackOnShortPrimary(t *testing.T) {
	primary := &fakeSource{name: "primary", records: fakeMatchups(5)}
	secondary := &fakeSource{name: "secondary", records: fakeMatchups(14)}
	l := New(primary, secondary, DefaultConfig())

	records, err := l.Load(context.Background(), 2025, 1)
	require.NoError(t, err)
	assert.Len(t, records, 14, "Short primary falls through to secondary")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestLoad_FallsBackOnPrimaryError(t *testing.T) {
	primary := &fakeSource{name: "primary", err: fmt.Errorf("file not found")}
	secondary := &fakeSource{name: "secondary", records: fakeMatchups(13)}
	l := New(primary, secondary, DefaultConfig())

	records, err := l.Load(context.Background(), 2025, 1)
	require.NoError(t, err, "Source failure is a fallback trigger, not a caller error")
	assert.Len(t, records, 13)
}

func TestLoad_ExhaustionReturnsEmptyNotError(t *testing.T) {
	primary := &fakeSource{name: "primary", err: fmt.Errorf("file not found")}
	secondary := &fakeSource{name: "secondary", records: fakeMatchups(3)}
	l := New(primary, secondary, DefaultConfig())

	records, err := l.Load(context.Background(), 2025, 1)
	require.NoError(t, err, "Exhaustion is an empty result, never an error")
	require.NotNil(t, records, "Empty result is an empty slice, not nil")
	assert.Len(t, records, 0)
}

func TestLoad_InvalidWeek(t *testing.T) {
	primary := &fakeSource{name: "primary", records: fakeMatchups(14)}
	secondary := &fakeSource{name: "secondary"}
	l := New(primary, secondary, DefaultConfig())

	for _, week := range []int{0, -1, 19} {
		_, err := l.Load(context.Background(), 2025, week)
		require.Error(t, err, "week %d", week)
		assert.Contains(t, err.Error(), "invalid week")
	}
	assert.Equal(t, 0, primary.calls, "No source is consulted for a malformed week")
}

func TestValidate_Bounds(t *testing.T) {
	l := New(nil, nil, DefaultConfig())

	valid, issues := l.Validate(fakeMatchups(12), 1)
	assert.True(t, valid)
	assert.Empty(t, issues)

	valid, issues = l.Validate(fakeMatchups(11), 1)
	assert.False(t, valid, "Below ValidateMin is a failure")
	require.Len(t, issues, 1)

	// Above ValidateMax is anomalous but not invalid.
	valid, issues = l.Validate(fakeMatchups(18), 1)
	assert.True(t, valid, "Above ValidateMax stays valid")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "warning:")
}

func TestScheduleFile_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")

	byWeek := map[string][]models.MatchupInput{
		"1": {
			{Season: 2025, Week: 1, HomeTeam: "KC", AwayTeam: "BAL", DateTime: "2025-09-04T20:20:00Z"},
			{Season: 2025, Week: 1, HomeTeam: "PHI", AwayTeam: "DAL", DateTime: "2025-09-05T20:15:00Z"},
			{Season: 2024, Week: 1, HomeTeam: "OLD", AwayTeam: "OLD2", DateTime: "2024-09-05T20:15:00Z"},
		},
	}
	data, err := json.Marshal(byWeek)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	src := NewScheduleFile(path)
	assert.Equal(t, "schedule-file", src.Name())

	matchups, err := src.Fetch(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.Len(t, matchups, 2, "Entries from other seasons are filtered out")
	assert.Equal(t, "KC", matchups[0].HomeTeam)
	assert.Equal(t, 2025, matchups[0].Season)
	assert.Equal(t, 1, matchups[0].Week)
}

func TestScheduleFile_Errors(t *testing.T) {
	dir := t.TempDir()

	// Missing file
	src := NewScheduleFile(filepath.Join(dir, "nope.json"))
	_, err := src.Fetch(context.Background(), 2025, 1)
	require.Error(t, err)

	// Malformed JSON
	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{not json"), 0o644))
	_, err = NewScheduleFile(badPath).Fetch(context.Background(), 2025, 1)
	require.Error(t, err)

	// Week key absent
	okPath := filepath.Join(dir, "ok.json")
	require.NoError(t, os.WriteFile(okPath, []byte(`{"1": []}`), 0o644))
	_, err = NewScheduleFile(okPath).Fetch(context.Background(), 2025, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no week 2")
}
