package session

import (
	"context"
	"testing"
	"time"

	"github.com/Zachkp/council-manifesto/internal/gallery"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSnapshot() gallery.PopupSnapshot {
	return gallery.PopupSnapshot{
		Slug: "camp",
		Open: true,
		Lightbox: gallery.State{
			Images: []string{"a", "b"},
			Index:  1,
			Open:   true,
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	snap, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, snap.Open)

	require.NoError(t, s.Save(ctx, "v1", openSnapshot()))
	snap, err = s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, openSnapshot(), snap)

	require.NoError(t, s.Save(ctx, "v1", gallery.PopupSnapshot{}))
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Save(ctx, "v2", openSnapshot()))
	require.NoError(t, s.Delete(ctx, "v2"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "old", openSnapshot()))
	require.NoError(t, s.Save(ctx, "kept", openSnapshot()))

	now = now.Add(2 * time.Minute)
	snap, err := s.Load(ctx, "old")
	require.NoError(t, err)
	assert.False(t, snap.Open)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
}

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), mr.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t)
	id := uuid.NewString()

	snap, err := s.Load(ctx, id)
	require.NoError(t, err, "unknown visitors load as closed")
	assert.False(t, snap.Open)

	require.NoError(t, s.Save(ctx, id, openSnapshot()))
	assert.True(t, mr.Exists(keyPrefix+id))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+id))

	snap, err = s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, openSnapshot(), snap)

	require.NoError(t, s.Save(ctx, id, gallery.PopupSnapshot{}))
	assert.False(t, mr.Exists(keyPrefix+id), "closed snapshots are deleted")
}

func TestRedisStoreExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t)

	require.NoError(t, s.Save(ctx, "v1", openSnapshot()))
	mr.FastForward(2 * time.Minute)

	snap, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, snap.Open)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	s, mr := newTestRedis(t)
	require.NoError(t, mr.Set(keyPrefix+"v1", "not json"))

	_, err := s.Load(context.Background(), "v1")
	assert.Error(t, err)
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), addr, "", 0, time.Minute)
	assert.Error(t, err)
}
