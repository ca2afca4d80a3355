package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "ddmp_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MODEL_CACHE_KEY", "id")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "ddmp_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 2.5, cfg.RateLimit.RPS)
	require.Equal(t, "id", cfg.Documents.CacheKey)
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MODEL_CACHE_KEY", "")
	t.Setenv("DOCUMENTS_DEFAULT_LIMIT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Empty(t, cfg.MongoDB.URI)
	require.Equal(t, "5000", cfg.Server.Port)
	require.Equal(t, 10, cfg.Documents.DefaultLimit)
	require.Equal(t, "ddmp-exports", cfg.MinIO.Bucket)
	require.Equal(t, "ddmp_documents", cfg.MongoDB.DocumentsDatabase)
}

func TestRedisAddrAndIssuer(t *testing.T) {
	require.Empty(t, RedisConfig{}.Addr())
	require.Equal(t, "cache:6379", RedisConfig{Host: "cache"}.Addr())
	require.Empty(t, KeycloakConfig{URL: "http://kc"}.IssuerURL())
	require.Equal(t, "http://kc/realms/ddmp", KeycloakConfig{URL: "http://kc", Realm: "ddmp"}.IssuerURL())
}
