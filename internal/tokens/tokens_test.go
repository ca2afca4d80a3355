package tokens

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-32-bytes-should-be-long-enough"

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	tokenStr, err := GenerateAccessToken(secret, "user-123", 2*time.Minute)
	require.NoError(t, err)

	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "user-123", claims["userId"])
	require.NotEmpty(t, claims["jti"])
}

func TestGenerateAccessToken_RequiresSecret(t *testing.T) {
	_, err := GenerateAccessToken("", "u", time.Minute)
	require.Error(t, err)
}

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier(secret)
	tokenStr, err := GenerateAccessToken(secret, "user-1", time.Minute)
	require.NoError(t, err)

	tok, err := v.Verify(context.Background(), tokenStr)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user-1", claims["userId"])

	var typed struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, tok.Claims(&typed))
	require.Equal(t, "user-1", typed.UserID)
}

func TestHMACVerifier_Rejects(t *testing.T) {
	v := NewHMACVerifier(secret)

	wrong, err := GenerateAccessToken("another-secret-32-bytes-longgggg", "u", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), wrong)
	require.Error(t, err)

	expired, err := GenerateAccessToken(secret, "u", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), expired)
	require.Error(t, err)

	// alg=none and missing exp are both refused
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": "u", "exp": time.Now().Add(time.Minute).Unix()})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), raw)
	require.Error(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u"})
	raw, err = noExp.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), raw)
	require.Error(t, err)

	_, err = v.Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
	require.False(t, strings.Contains(err.Error(), secret))
}

func TestRemainingTTL(t *testing.T) {
	exp := float64(time.Now().Add(time.Hour).Unix())
	d := RemainingTTL(map[string]interface{}{"exp": exp}, time.Minute)
	require.Greater(t, d, 59*time.Minute)
	require.Equal(t, time.Minute, RemainingTTL(map[string]interface{}{}, time.Minute))
	past := float64(time.Now().Add(-time.Hour).Unix())
	require.Equal(t, time.Duration(0), RemainingTTL(map[string]interface{}{"exp": past}, time.Minute))
}
