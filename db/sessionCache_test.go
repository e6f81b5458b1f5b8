package db

import (
	"context"
	"testing"
	"time"

	"tutor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCacheSessionStore(time.Hour, time.Minute)

	_, err := store.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	session := &models.Session{ID: "s1", Score: 50, Level: models.LevelIntermediate, Status: models.SessionActive}
	require.NoError(t, store.PutSession(ctx, session, time.Hour))

	// Mutating the caller's value must not leak into the store.
	session.Score = 99

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Score)

	got.Turns = append(got.Turns, models.Turn{Text: "x"})
	again, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Turns)

	require.NoError(t, store.DeleteSession(ctx, "s1"))
	_, err = store.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCacheSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewCacheSessionStore(time.Hour, time.Minute)

	require.NoError(t, store.PutSession(ctx, &models.Session{ID: "short"}, 20*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	_, err := store.GetSession(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCacheSessionStorePutRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	store := NewCacheSessionStore(time.Hour, time.Minute)

	s := &models.Session{ID: "sliding"}
	require.NoError(t, store.PutSession(ctx, s, 80*time.Millisecond))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, store.PutSession(ctx, s, 80*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	_, err := store.GetSession(ctx, "sliding")
	assert.NoError(t, err)
}
