package oidc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Supraja1508/Backend/pkg/middleware"
)

type stubVerifier struct {
	claims map[string]interface{}
	err    error
}

type stubToken map[string]interface{}

func (t stubToken) Claims(v interface{}) error {
	*(v.(*map[string]interface{})) = t
	return nil
}

func (s stubVerifier) Verify(context.Context, string) (middleware.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return stubToken(s.claims), nil
}

func TestChainReturnsFirstSuccess(t *testing.T) {
	c := Chain{
		stubVerifier{err: errors.New("bad signature")},
		stubVerifier{claims: map[string]interface{}{"sub": "kc-user"}},
	}
	tok, err := c.Verify(context.Background(), "raw")
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "kc-user", claims["sub"])
}

func TestChainCollectsErrors(t *testing.T) {
	c := Chain{stubVerifier{err: errors.New("one")}, stubVerifier{err: errors.New("two")}}
	_, err := c.Verify(context.Background(), "raw")
	require.ErrorContains(t, err, "one; two")

	_, err = Chain{}.Verify(context.Background(), "raw")
	require.Error(t, err)
}

func TestInsecureVerifierReadsPayload(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	v := NewInsecureVerifier()

	tok, err := v.Verify(context.Background(), "e30."+enc(`{"userId":"u1"}`)+".sig")
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "u1", claims["userId"])

	future := time.Now().Add(time.Hour).Unix()
	_, err = v.Verify(context.Background(), "e30."+enc(fmt.Sprintf(`{"sub":"u1","exp":%d}`, future))+".sig")
	require.NoError(t, err)

	for _, raw := range []string{
		"nodots",
		"a.b",
		"a." + enc("nope") + ".c",
		"a." + enc(`["array"]`) + ".c",
		"a." + enc(`{"exp":"soon"}`) + ".c",
		"a." + enc(`{"exp":1000}`) + ".c",
	} {
		_, err = v.Verify(context.Background(), raw)
		require.Error(t, err, raw)
	}
}
