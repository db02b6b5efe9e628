package token

import (
	httpx "github.com/bronystylecrazy/skyline/security/internal/httpx"
	jwtware "github.com/gofiber/contrib/v3/jwt"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/extractors"
	jwtgo "github.com/golang-jwt/jwt/v5"
)

type Extractor = extractors.Extractor

// VerifiedHandler runs after Verify accepts the credential. It gets
// the raw credential so callers can consult revocation state.
type VerifiedHandler func(c fiber.Ctx, credential string, p Payload) error

func FromAuthHeader(scheme string) Extractor {
	return extractors.FromAuthHeader(scheme)
}

func FromCookie(name string) Extractor {
	return extractors.FromCookie(name)
}

// Middleware verifies the credential found by extractor. Any failure is
// answered with a generic 401.
func (c *Codec) Middleware(extractor Extractor, next VerifiedHandler) fiber.Handler {
	if len(c.signingKey) == 0 {
		return func(ctx fiber.Ctx) error {
			return httpx.Unauthorized(ctx, "")
		}
	}
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtgo.SigningMethodHS256.Alg(),
			Key:    c.signingKey,
		},
		Extractor: extractor,
		SuccessHandler: func(ctx fiber.Ctx) error {
			tok := jwtware.FromContext(ctx)
			if tok == nil {
				return httpx.Unauthorized(ctx, "")
			}
			// jwtware only checks the signature; expiry and issuer rules
			// live in Verify and apply to every transport.
			p, err := c.Verify(tok.Raw)
			if err != nil {
				return httpx.Unauthorized(ctx, "")
			}
			return next(ctx, tok.Raw, p)
		},
		ErrorHandler: func(ctx fiber.Ctx, err error) error {
			return httpx.Unauthorized(ctx, "")
		},
	})
}
