package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Supraja1508/Backend/pkg/middleware"
)

// GenerateAccessToken creates a signed HS256 access token carrying the
// userId claim the document API authorizes against.
func GenerateAccessToken(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"sub":    userID,
		"jti":    uuid.NewString(),
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// HMACVerifier verifies HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return mapToken(claims), nil
}

// mapToken exposes verified claims through middleware.Token.
type mapToken jwt.MapClaims

func (t mapToken) Claims(v interface{}) error {
	if m, ok := v.(*map[string]interface{}); ok {
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = val
		}
		*m = out
		return nil
	}
	b, err := json.Marshal(map[string]interface{}(t))
	if err != nil {
		return fmt.Errorf("claims: %w", err)
	}
	return json.Unmarshal(b, v)
}

// RemainingTTL returns how long a token with these claims stays valid, used
// to size revocation entries. Tokens without exp get fallback.
func RemainingTTL(claims map[string]interface{}, fallback time.Duration) time.Duration {
	exp, err := jwt.MapClaims(claims).GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	if d := time.Until(exp.Time); d > 0 {
		return d
	}
	return 0
}
