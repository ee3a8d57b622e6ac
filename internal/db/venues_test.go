package db_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/venues/internal/db"
	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

// Requires a disposable Postgres at TEST_DATABASE_URL; the tables are wiped.
func TestVenueMirrorIntegration(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database integration test")
	}
	require.NoError(t, db.InitTestDB("../../migrations"))
	store := db.TestStore
	ctx := context.Background()
	t.Cleanup(func() {
		_ = db.TruncateVenues(context.Background())
		db.DB.Close()
	})

	// already-applied migrations are skipped on restart
	require.NoError(t, db.RunMigrations("../../migrations"))

	start := time.Date(2013, 3, 4, 19, 0, 0, 0, time.UTC)
	venues := []model.Venue{
		{
			ID:      1,
			Name:    "Petco Park",
			Address: "100 Park Blvd",
			Schedule: []model.ScheduleItem{
				{Start: start, End: start.Add(3 * time.Hour)},
				{Start: start.Add(24 * time.Hour)},
			},
		},
		{ID: 2, Name: "House of Blues"},
		{ID: 1, Name: "Petco Park (relisted)"},
	}

	t.Run("Replace and list", func(t *testing.T) {
		require.NoError(t, store.ReplaceVenues(ctx, venues))

		got, err := store.ListVenues(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Petco Park", got[0].Name)
		require.Len(t, got[0].Schedule, 2)
		assert.True(t, got[0].Schedule[0].Start.Equal(start))
		assert.True(t, got[0].Schedule[1].End.IsZero())
		assert.Empty(t, got[1].Schedule)
	})

	t.Run("List keeps duplicate ids in order", func(t *testing.T) {
		got, err := store.ListVenues(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, int64(1), got[2].ID)
		assert.Equal(t, "Petco Park (relisted)", got[2].Name)
	})

	t.Run("Replace with empty clears", func(t *testing.T) {
		require.NoError(t, store.ReplaceVenues(ctx, nil))
		got, err := store.ListVenues(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
