package token

import (
	"encoding/json"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
)

const (
	ClaimUserID    = "userId"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimID        = "jti"
	ClaimIssuer    = "iss"
)

// Payload is the decoded content of a credential.
type Payload struct {
	UserID    string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Extra holds extension claims, excluding the registered ones above.
	Extra map[string]any
}

func (p Payload) Value(key string) (any, bool) {
	v, ok := p.Extra[key]
	return v, ok
}

func isReserved(key string) bool {
	switch key {
	case ClaimUserID, ClaimIssuedAt, ClaimExpiresAt, ClaimID, ClaimIssuer, "nbf":
		return true
	}
	return false
}

func payloadFromClaims(in jwtgo.MapClaims) Payload {
	extra := make(map[string]any, len(in))
	for k, v := range in {
		if !isReserved(k) {
			extra[k] = v
		}
	}
	userID, _ := in[ClaimUserID].(string)
	id, _ := in[ClaimID].(string)
	return Payload{
		UserID:    userID,
		ID:        id,
		IssuedAt:  claimUnixTime(in[ClaimIssuedAt]),
		ExpiresAt: claimUnixTime(in[ClaimExpiresAt]),
		Extra:     extra,
	}
}

func claimUnixTime(v any) time.Time {
	switch t := v.(type) {
	case float64:
		return time.Unix(int64(t), 0).UTC()
	case int64:
		return time.Unix(t, 0).UTC()
	case int:
		return time.Unix(int64(t), 0).UTC()
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return time.Time{}
		}
		return time.Unix(i, 0).UTC()
	default:
		return time.Time{}
	}
}
