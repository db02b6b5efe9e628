package session

import (
	httpx "github.com/bronystylecrazy/skyline/security/internal/httpx"
	"github.com/bronystylecrazy/skyline/security/token"
	"github.com/gofiber/fiber/v3"
)

// Require answers 401 unless the request carries a live session.
func (m *Manager) Require() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m.GetSession(c) == nil {
			return httpx.Unauthorized(c, "")
		}
		return c.Next()
	}
}

// BearerAuth authenticates non-browser clients that send the credential in
// the Authorization header. The result is stored in the same request scope
// GetSession reads from.
func (m *Manager) BearerAuth() fiber.Handler {
	return m.codec.Middleware(token.FromAuthHeader("Bearer"), func(c fiber.Ctx, credential string, p token.Payload) error {
		if m.revoker.IsRevoked(c.Context(), credential) {
			return httpx.Unauthorized(c, "")
		}
		requestScope(c).set(&Session{UserID: p.UserID})
		return c.Next()
	})
}
