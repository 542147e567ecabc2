//go:build integration

package repository

import (
	"testing"
	"time"

	"nfl_v1/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchupRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	matchup := &models.Matchup{
		Season:   2025,
		Week:     1,
		HomeTeam: "KC",
		AwayTeam: "BAL",
		GameDate: time.Date(2025, time.September, 4, 20, 20, 0, 0, time.UTC),
	}

	// Insert new matchup
	err := db.Matchups.Upsert(ctx, matchup)
	require.NoError(t, err, "Should successfully insert matchup")
	assert.NotZero(t, matchup.ID, "Upsert should populate the row ID")
	assert.True(t, matchup.ScrapedAt.Valid, "Upsert should stamp scraped_at")

	firstScrape := matchup.ScrapedAt.Time

	// Update existing matchup: same key, new game date
	matchup.GameDate = matchup.GameDate.Add(24 * time.Hour)
	err = db.Matchups.Upsert(ctx, matchup)
	require.NoError(t, err, "Should successfully update matchup")

	retrieved, err := db.Matchups.GetByWeek(ctx, 2025, 1)
	require.NoError(t, err, "Should retrieve matchups for the week")
	require.NotEmpty(t, retrieved)
	assert.True(t, !matchup.ScrapedAt.Time.Before(firstScrape), "Upsert should refresh scraped_at")
}

func TestMatchupRepository_CountAndLatestScrape(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// A week with no rows: count zero, no scrape timestamp.
	count, err := db.Matchups.CountByWeek(ctx, 1999, 18)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, found, err := db.Matchups.LatestScrape(ctx, 1999, 18)
	require.NoError(t, err, "Absent rows are not an error")
	assert.False(t, found, "No rows means no timestamp")

	// Insert a couple of matchups and verify both queries see them.
	for _, pair := range [][2]string{{"PHI", "DAL"}, {"SF", "SEA"}} {
		err := db.Matchups.Upsert(ctx, &models.Matchup{
			Season:   2025,
			Week:     2,
			HomeTeam: pair[0],
			AwayTeam: pair[1],
			GameDate: time.Date(2025, time.September, 14, 13, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	count, err = db.Matchups.CountByWeek(ctx, 2025, 2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 2, "Count should include the inserted rows")

	latest, found, err := db.Matchups.LatestScrape(ctx, 2025, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.WithinDuration(t, time.Now(), latest, time.Minute, "Fresh upserts carry a recent scrape time")
}

func TestGameLogRepository_UpsertAndLatestImport(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	gl := &models.PlayerGameLog{
		PlayerName:        "Patrick Mahomes",
		Season:            2025,
		Week:              1,
		PassingAttempts:   38,
		PassingTouchdowns: 3,
		RedZonePasses:     6,
	}

	err := db.GameLogs.Upsert(ctx, gl)
	require.NoError(t, err, "Should successfully insert game log")
	assert.NotZero(t, gl.ID)
	assert.True(t, gl.ImportedAt.Valid, "Upsert should stamp imported_at")

	logs, err := db.GameLogs.GetByWeek(ctx, 2025, 1)
	require.NoError(t, err)
	require.NotEmpty(t, logs)

	latest, found, err := db.GameLogs.LatestImport(ctx, 2025, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.WithinDuration(t, time.Now(), latest, time.Minute)
}
