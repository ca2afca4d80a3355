package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	switch raw {
	case "goodtoken":
		return &fakeToken{data: map[string]interface{}{"userId": "user1", "sub": "other"}}, nil
	case "subtoken":
		return &fakeToken{data: map[string]interface{}{"sub": "user2"}}, nil
	case "anonymous":
		return &fakeToken{data: map[string]interface{}{"email": "x@example.com"}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	return f.revoked[token], f.err
}

func serve(t *testing.T, header string, rev Revocations) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}, rev), func(c *gin.Context) {
		claims, ok := c.Get(ClaimsKey)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"claims": claims, "userId": UserID(c)})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, "", nil).Code)
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, "BadHeader", nil).Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rw := serve(t, "Bearer nope", nil)
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "invalid token")
}

func TestAuthMiddleware_ValidTokenPrefersUserIDClaim(t *testing.T) {
	rw := serve(t, "Bearer goodtoken", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Contains(t, got, "claims")
	require.Equal(t, "user1", got["userId"])
}

func TestAuthMiddleware_FallsBackToSub(t *testing.T) {
	rw := serve(t, "Bearer subtoken", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	require.Contains(t, rw.Body.String(), `"userId":"user2"`)
}

func TestAuthMiddleware_RejectsTokenWithoutPrincipal(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, "Bearer anonymous", nil).Code)
}

func TestAuthMiddleware_RejectsRevokedToken(t *testing.T) {
	rev := &fakeRevocations{revoked: map[string]bool{"goodtoken": true}}
	rw := serve(t, "Bearer goodtoken", rev)
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "token revoked")

	require.Equal(t, http.StatusOK, serve(t, "Bearer subtoken", rev).Code)
}

func TestAuthMiddleware_RevocationBackendDown(t *testing.T) {
	rev := &fakeRevocations{err: errors.New("connection refused")}
	require.Equal(t, http.StatusServiceUnavailable, serve(t, "Bearer goodtoken", rev).Code)
}
