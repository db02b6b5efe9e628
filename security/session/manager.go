package session

import (
	"context"
	"errors"
	"time"

	"github.com/bronystylecrazy/skyline/log"
	"github.com/bronystylecrazy/skyline/security/revocation"
	"github.com/bronystylecrazy/skyline/security/token"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

var ErrRevocationNotRecorded = errors.New("session: revocation not recorded")

// Session is the authenticated identity derived from a request.
type Session struct {
	UserID string `json:"userId"`
}

type Codec interface {
	Issue(p token.Payload, ttl time.Duration) (string, error)
	Verify(credential string) (token.Payload, error)
	Middleware(extractor token.Extractor, next token.VerifiedHandler) fiber.Handler
}

type Revoker interface {
	Revoke(ctx context.Context, credential string) revocation.Outcome
	IsRevoked(ctx context.Context, credential string) bool
}

// Manager moves a request between the anonymous and authenticated states.
// Its public methods never return errors; failures are logged and collapse
// to anonymous.
type Manager struct {
	codec   Codec
	revoker Revoker
	config  Config
	sink    *log.Sink
}

func NewManager(codec Codec, revoker Revoker, config Config, sink *log.Sink) *Manager {
	return &Manager{
		codec:   codec,
		revoker: revoker,
		config:  config.withDefaults(),
		sink:    sink,
	}
}

func (m *Manager) CookieName() string {
	return m.config.CookieName
}

// SignIn issues a credential for userID and sets it as the session cookie.
func (m *Manager) SignIn(c fiber.Ctx, userID string) bool {
	credential, err := m.codec.Issue(token.Payload{UserID: userID}, m.config.TTL)
	if err != nil {
		m.sink.AuthError("signIn", err, zap.String("user_id", userID))
		return false
	}

	c.Cookie(m.cookie(credential))
	sc := requestScope(c)
	sc.issued = credential
	sc.set(&Session{UserID: userID})
	return true
}

// GetSession returns the request's identity or nil. The first call per
// request does the work; later calls reuse its answer.
func (m *Manager) GetSession(c fiber.Ctx) *Session {
	sc := requestScope(c)
	if sc.resolved {
		return sc.session
	}
	sc.set(m.resolve(c.Context(), c.Cookies(m.config.CookieName)))
	return sc.session
}

func (m *Manager) resolve(ctx context.Context, credential string) *Session {
	if credential == "" {
		return nil
	}
	if m.revoker.IsRevoked(ctx, credential) {
		return nil
	}
	p, err := m.codec.Verify(credential)
	if err != nil {
		if errors.Is(err, token.ErrMissingSecret) {
			m.sink.AuthError("getSession", err)
		}
		return nil
	}
	return &Session{UserID: p.UserID}
}

// SignOut revokes the current credential and clears the cookie. The cookie
// is cleared even when revocation could not be recorded.
func (m *Manager) SignOut(c fiber.Ctx) {
	sc := requestScope(c)
	ctx := c.Context()

	credentials := []string{c.Cookies(m.config.CookieName)}
	if sc.issued != "" && sc.issued != credentials[0] {
		credentials = append(credentials, sc.issued)
	}
	for _, credential := range credentials {
		if credential == "" {
			continue
		}
		if outcome := m.revoker.Revoke(ctx, credential); outcome == revocation.OutcomeUnavailable {
			m.sink.AuthError("signOut", ErrRevocationNotRecorded, zap.Stringer("outcome", outcome))
		}
	}

	c.Cookie(m.expiredCookie())
	sc.issued = ""
	sc.set(nil)
}

func (m *Manager) cookie(credential string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     m.config.CookieName,
		Value:    credential,
		Path:     "/",
		Domain:   m.config.Domain,
		MaxAge:   int(m.config.TTL / time.Second),
		HTTPOnly: true,
		Secure:   m.config.Production,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (m *Manager) expiredCookie() *fiber.Cookie {
	cookie := m.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0).UTC()
	return cookie
}
