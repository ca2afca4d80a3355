package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Supraja1508/Backend/internal/revocation"
	"github.com/Supraja1508/Backend/internal/tokens"
	"github.com/Supraja1508/Backend/pkg/middleware"
)

const secret = "handlers-test-secret-0123456789abcdef"

func authRouter(store *revocation.Store) *gin.Engine {
	g := gin.New()
	var rev middleware.Revocations
	if store != nil {
		rev = store
	}
	api := g.Group("/", middleware.AuthMiddleware(tokens.NewHMACVerifier(secret), rev))
	var r Revoker
	if store != nil {
		r = store
	}
	NewAuthHandler(r, time.Hour).Register(api)
	return g
}

func do(t *testing.T, g *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestProfile(t *testing.T) {
	g := authRouter(nil)
	tok, err := tokens.GenerateAccessToken(secret, "u-42", time.Minute)
	require.NoError(t, err)

	w := do(t, g, http.MethodGet, "/profile", tok)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Welcome u-42! This is your protected profile.")

	w = do(t, g, http.MethodGet, "/api/v1/me", tok)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"userId":"u-42"`)

	require.Equal(t, http.StatusUnauthorized, do(t, g, http.MethodGet, "/profile", "").Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	g := authRouter(revocation.NewStore(redis.NewClient(&redis.Options{Addr: m.Addr()})))

	tok, err := tokens.GenerateAccessToken(secret, "u1", time.Minute)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(t, g, http.MethodGet, "/profile", tok).Code)
	require.Equal(t, http.StatusOK, do(t, g, http.MethodPost, "/auth/logout", tok).Code)

	w := do(t, g, http.MethodGet, "/profile", tok)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "token revoked")

	// the entry expires with the token
	m.FastForward(2 * time.Minute)
	require.Empty(t, m.Keys())
}

func TestLogoutWithoutRedis(t *testing.T) {
	g := authRouter(nil)
	tok, err := tokens.GenerateAccessToken(secret, "u1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotImplemented, do(t, g, http.MethodPost, "/auth/logout", tok).Code)
}

func TestSystemRoutes(t *testing.T) {
	g := gin.New()
	RegisterSystem(g, time.Now(),
		Check{Name: "mongo", Ping: func(context.Context) error { return nil }},
		Check{Name: "redis", Ping: func(context.Context) error { return errors.New("down") }},
	)

	w := do(t, g, http.MethodGet, "/", "")
	require.Equal(t, "DDMP Server is Running", w.Body.String())
	require.Equal(t, http.StatusOK, do(t, g, http.MethodGet, "/health", "").Code)

	w = do(t, g, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"redis":false`)
	require.Contains(t, w.Body.String(), `"mongo":true`)

	g = gin.New()
	RegisterSystem(g, time.Now())
	require.Equal(t, http.StatusOK, do(t, g, http.MethodGet, "/ready", "").Code)
}
