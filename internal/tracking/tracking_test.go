package tracking

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHashIPIsStableAndOpaque(t *testing.T) {
	db := openTestDB(t)
	h := db.HashIP("10.0.0.1")
	assert.Len(t, h, 16)
	assert.Equal(t, h, db.HashIP("10.0.0.1"))
	assert.NotEqual(t, h, db.HashIP("10.0.0.2"))
	assert.NotContains(t, h, "10.0.0.1")
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	db.now = func() time.Time { return now.Add(-3 * 24 * time.Hour) }
	require.NoError(t, db.RecordVisit(ctx, "1.1.1.1", "ua", "/"))

	db.now = func() time.Time { return now.Add(-time.Hour) }
	require.NoError(t, db.RecordVisit(ctx, "1.1.1.1", "ua", "/"))
	require.NoError(t, db.RecordVisit(ctx, "2.2.2.2", "ua", "/"))
	require.NoError(t, db.RecordGalleryOpen(ctx, "1.1.1.1", "camp", 0))
	require.NoError(t, db.RecordGalleryOpen(ctx, "2.2.2.2", "camp", 2))
	require.NoError(t, db.RecordGalleryOpen(ctx, "2.2.2.2", "forum", 1))

	db.now = func() time.Time { return now }
	stats, err := db.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalVisitors)
	assert.EqualValues(t, 2, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsToday)
	assert.EqualValues(t, 3, stats.VisitorsThisWeek)
	assert.EqualValues(t, 3, stats.GalleryOpens)
	assert.Equal(t, []ItemStat{{Slug: "camp", Opens: 2}, {Slug: "forum", Opens: 1}}, stats.TopItems)
	require.Len(t, stats.RecentVisitors, 3)
	assert.Equal(t, now.Add(-time.Hour), stats.RecentVisitors[0].Timestamp.UTC())
}

func TestCleanupRemovesOldRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	db.now = func() time.Time { return now.Add(-400 * 24 * time.Hour) }
	require.NoError(t, db.RecordVisit(ctx, "1.1.1.1", "ua", "/"))
	require.NoError(t, db.RecordGalleryOpen(ctx, "1.1.1.1", "camp", 0))

	db.now = func() time.Time { return now }
	require.NoError(t, db.RecordVisit(ctx, "1.1.1.1", "ua", "/"))

	n, err := db.Cleanup(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalVisitors)
	assert.EqualValues(t, 0, stats.GalleryOpens)
}
