package oidc

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Supraja1508/Backend/pkg/middleware"
)

type claimsToken []byte

func (t claimsToken) Claims(v interface{}) error {
	return json.Unmarshal(t, v)
}

// InsecureVerifier reads the claims of a JWT without checking its signature
// or issuer. It still rejects expired tokens. main only enables it in
// development with ALLOW_INSECURE_TOKEN=true.
type InsecureVerifier struct {
	now func() time.Time
}

func NewInsecureVerifier() *InsecureVerifier { return &InsecureVerifier{now: time.Now} }

func (v *InsecureVerifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, errors.New("insecure verifier: token must have three segments")
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, err
	}
	var head struct {
		Exp *json.Number `json:"exp"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, errors.New("insecure verifier: payload is not a JSON object")
	}
	if head.Exp != nil {
		exp, err := head.Exp.Float64()
		if err != nil {
			return nil, errors.New("insecure verifier: exp is not numeric")
		}
		if v.now().After(time.Unix(int64(exp), 0)) {
			return nil, errors.New("insecure verifier: token is expired")
		}
	}
	return claimsToken(payload), nil
}
