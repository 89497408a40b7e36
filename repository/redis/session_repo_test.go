package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

func newTestRepo(t *testing.T) (*miniredis.Miniredis, *sessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewSessionRepository(client, time.Hour).(*sessionRepository)
}

func TestSessionSaveAndGet(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:          "sess-1",
		UserID:      "user-1",
		Username:    "johndoe",
		AccessToken: "token",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "johndoe", got.Username)
	assert.Equal(t, "token", got.AccessToken)
}

func TestSessionGetMissing(t *testing.T) {
	_, repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionSaveRejectsEmptyID(t *testing.T) {
	_, repo := newTestRepo(t)

	err := repo.Save(context.Background(), &domain.Session{})
	require.ErrorIs(t, err, domain.ErrInvalidPayload)

	err = repo.Save(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestSessionDelete(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "sess-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Save(ctx, session))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := repo.Get(ctx, "sess-1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionExpiresWithTTL(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "sess-1", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.Save(ctx, session))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "sess-1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionExtend(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "sess-1", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.Save(ctx, session))
	require.NoError(t, repo.Extend(ctx, "sess-1", 3600))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
}
