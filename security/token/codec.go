package token

import (
	"errors"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingSecret is a configuration fault, not an authentication result.
	ErrMissingSecret = errors.New("token: signing secret not configured")
	ErrMissingUserID = errors.New("token: missing user id")
	// ErrInvalidToken is returned for every verification failure so callers
	// cannot tell tampering, expiry and malformed input apart.
	ErrInvalidToken = errors.New("token: invalid or expired token")
)

// Codec issues and verifies HS256 credentials.
type Codec struct {
	config     Config
	signingKey []byte
	now        func() time.Time
}

func NewCodec(config Config) *Codec {
	cfg := config.withDefaults()
	return &Codec{
		config:     cfg,
		signingKey: []byte(cfg.Secret),
		now:        time.Now,
	}
}

func (c *Codec) TTL() time.Duration {
	return c.config.TTL
}

// Issue signs p with iat=now and exp=now+ttl. A zero ttl uses the configured
// lifetime; a negative ttl yields an already expired credential.
func (c *Codec) Issue(p Payload, ttl time.Duration) (string, error) {
	if len(c.signingKey) == 0 {
		return "", ErrMissingSecret
	}
	if p.UserID == "" {
		return "", ErrMissingUserID
	}
	if ttl == 0 {
		ttl = c.config.TTL
	}

	now := c.now().UTC()
	claims := jwtgo.MapClaims{}
	for k, v := range p.Extra {
		if !isReserved(k) {
			claims[k] = v
		}
	}
	claims[ClaimUserID] = p.UserID
	claims[ClaimID] = uuid.NewString()
	claims[ClaimIssuedAt] = now.Unix()
	claims[ClaimExpiresAt] = now.Add(ttl).Unix()
	if c.config.Issuer != "" {
		claims[ClaimIssuer] = c.config.Issuer
	}

	t := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims)
	return t.SignedString(c.signingKey)
}

func (c *Codec) Verify(credential string) (Payload, error) {
	if len(c.signingKey) == 0 {
		return Payload{}, ErrMissingSecret
	}
	if credential == "" {
		return Payload{}, ErrInvalidToken
	}

	token, err := c.parser().Parse(credential, c.keyFunc)
	if err != nil || !token.Valid {
		return Payload{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwtgo.MapClaims)
	if !ok {
		return Payload{}, ErrInvalidToken
	}

	out := payloadFromClaims(claims)
	if out.UserID == "" {
		return Payload{}, ErrInvalidToken
	}
	return out, nil
}

func (c *Codec) parser() *jwtgo.Parser {
	opts := []jwtgo.ParserOption{
		jwtgo.WithValidMethods([]string{jwtgo.SigningMethodHS256.Alg()}),
		jwtgo.WithExpirationRequired(),
		jwtgo.WithTimeFunc(c.now),
	}
	if c.config.Issuer != "" {
		opts = append(opts, jwtgo.WithIssuer(c.config.Issuer))
	}
	return jwtgo.NewParser(opts...)
}

func (c *Codec) keyFunc(token *jwtgo.Token) (any, error) {
	if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return c.signingKey, nil
}
