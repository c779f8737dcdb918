package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestReplaceAndLoadSnapshot(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	created := time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC)
	snapshot := []model.Case{
		{
			ID:          "c1",
			UserID:      "u1",
			Title:       "Injured dog",
			Description: "hit by a car near the flyover",
			Photo:       "https://cdn.example.com/c1.jpg",
			Location:    &model.Location{Lat: 19.076, Lng: 72.8777, Address: "Bandra, Mumbai"},
			Urgency:     model.UrgencyHigh,
			Status:      model.StatusPending,
			CreatedAt:   created,
		},
		{
			ID:        "c2",
			UserID:    "u2",
			Urgency:   model.UrgencyLow,
			Status:    model.StatusResolved,
			CreatedAt: created.Add(time.Hour),
		},
	}

	require.NoError(t, c.ReplaceSnapshot(ctx, snapshot))

	got, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "Injured dog", got[0].Title)
	require.NotNil(t, got[0].Location)
	assert.InDelta(t, 19.076, got[0].Location.Lat, 0.0001)
	assert.Equal(t, "Bandra, Mumbai", got[0].Location.Address)
	assert.Equal(t, model.UrgencyHigh, got[0].Urgency)
	assert.True(t, created.Equal(got[0].CreatedAt))

	// A case without a location round-trips as nil, not a zero coordinate.
	assert.Nil(t, got[1].Location)
	assert.Equal(t, model.StatusResolved, got[1].Status)
}

func TestReplaceSnapshotOverwritesPrevious(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	created := time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC)

	require.NoError(t, c.ReplaceSnapshot(ctx, []model.Case{
		{ID: "old-1", CreatedAt: created},
		{ID: "old-2", CreatedAt: created},
	}))
	require.NoError(t, c.ReplaceSnapshot(ctx, []model.Case{
		{ID: "new-1", CreatedAt: created},
	}))

	got, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].ID)
}

func TestLoadSnapshotEmptyCache(t *testing.T) {
	c := openTestCache(t)

	got, err := c.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	c := openTestCache(t)

	// Re-running migrations on an up-to-date schema is a no-op.
	require.NoError(t, c.runMigrations())
}
