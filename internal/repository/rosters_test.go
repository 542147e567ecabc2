//go:build integration

package repository

import (
	"testing"

	"nfl_v1/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterRepository_UpsertAndQueries(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	entries := []*models.RosterEntry{
		{PlayerName: "Patrick Mahomes", Season: 2025, Week: 1, Position: "QB", Status: "Starter"},
		{PlayerName: "Carson Wentz", Season: 2025, Week: 1, Position: "QB", Status: "Backup"},
	}
	for _, e := range entries {
		err := db.Rosters.Upsert(ctx, e)
		require.NoError(t, err, "Should insert roster entry")
		assert.NotZero(t, e.ID, "Upsert should populate the row ID")
	}

	// Update: same key, promoted status.
	entries[1].Status = "Starter"
	err := db.Rosters.Upsert(ctx, entries[1])
	require.NoError(t, err, "Should update roster entry")

	names, err := db.Rosters.NamesByWeek(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Contains(t, names, "Patrick Mahomes")
	assert.Contains(t, names, "Carson Wentz")

	got, err := db.Rosters.GetByWeek(ctx, 2025, 1)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	starters := 0
	for _, e := range got {
		if e.IsStarter() {
			starters++
		}
	}
	assert.GreaterOrEqual(t, starters, 2, "Both entries hold starting slots after the promotion")
}
