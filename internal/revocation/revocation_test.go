package revocation

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRevokeAndExpire(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	s := NewStore(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	ctx := context.Background()
	token := "access-token-1"

	require.NoError(t, s.Revoke(ctx, token, 2*time.Second))
	ok, err := s.IsRevoked(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)

	// the raw token is never used as a key
	require.False(t, m.Exists(keyPrefix+token))

	// advance past TTL
	m.FastForward(3 * time.Second)
	ok, err = s.IsRevoked(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Ping(ctx))
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	s := NewStore(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	require.NoError(t, s.Revoke(context.Background(), "old", 0))
	require.Empty(t, m.Keys())
}

func TestNoClientNoop(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	require.False(t, s.Enabled())
	require.NoError(t, s.Revoke(ctx, "tok", time.Second))
	ok, err := s.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, s.Ping(ctx))
}

func TestRedisDownSurfacesError(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	s := NewStore(redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1}))
	m.Close()

	_, err = s.IsRevoked(context.Background(), "tok")
	require.Error(t, err)
}
