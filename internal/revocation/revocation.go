// Package revocation keeps a Redis-backed list of access tokens that were
// signed out before they expired.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:access:"

// Store records revoked tokens. A Store with a nil client is a no-op that
// reports nothing as revoked.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Enabled reports whether a Redis client is configured.
func (s *Store) Enabled() bool { return s != nil && s.client != nil }

// Revoke marks token as revoked for ttl, normally the token's remaining
// lifetime. A non-positive ttl is a no-op since the token is already expired.
func (s *Store) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if !s.Enabled() || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, key(token), "1", ttl).Err()
}

// IsRevoked returns true when the token is on the list.
func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	n, err := s.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// key hashes the token so raw credentials never land in Redis.
func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
