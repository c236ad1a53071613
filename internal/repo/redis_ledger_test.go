package repo

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bug_tracker/internal/tokens"
)

func newTestRedisLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	l := &RedisLedger{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLedger_RevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestRedisLedger(t)

	revoked, err := l.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	key := revokedKeyPrefix + tokens.Sha256Hex("tok")

	require.NoError(t, l.Revoke(ctx, "tok"))
	first, err := mr.Get(key)
	require.NoError(t, err)

	require.NoError(t, mr.Set(key, "1"))
	require.NoError(t, l.Revoke(ctx, "tok"))
	again, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "1", again)
	assert.NotEmpty(t, first)

	revoked, err = l.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Zero(t, mr.TTL(key))
	assert.Len(t, mr.Keys(), 1)
}

func TestRedisLedger_Unavailable(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestRedisLedger(t)
	mr.Close()

	_, err := l.IsRevoked(ctx, "tok")
	assert.Error(t, err)
	assert.Error(t, l.Revoke(ctx, "tok"))
}

func TestNewRedisLedger_BadURL(t *testing.T) {
	_, err := NewRedisLedger("not a url")
	assert.Error(t, err)
}
