package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bronystylecrazy/skyline/log"
	"github.com/bronystylecrazy/skyline/security/revocation"
	"github.com/bronystylecrazy/skyline/security/token"
	"github.com/gofiber/fiber/v3"
	jwtgo "github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCodec struct {
	*token.Codec
	verifies int
}

func (c *countingCodec) Verify(credential string) (token.Payload, error) {
	c.verifies++
	return c.Codec.Verify(credential)
}

type stubRevoker struct {
	revoked bool
	outcome revocation.Outcome
	revokes []string
}

func (s *stubRevoker) Revoke(_ context.Context, credential string) revocation.Outcome {
	s.revokes = append(s.revokes, credential)
	return s.outcome
}

func (s *stubRevoker) IsRevoked(context.Context, string) bool {
	return s.revoked
}

type fixture struct {
	app     *fiber.App
	manager *Manager
	codec   *countingCodec
	store   *revocation.Store
	server  *miniredis.Miniredis
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	codec := &countingCodec{Codec: token.NewCodec(token.Config{Secret: "test-secret"})}
	store := revocation.NewStore(client, codec.Codec, revocation.Config{}, log.NopSink())
	manager := NewManager(codec, store, cfg, log.NopSink())

	return &fixture{
		app:     newTestApp(manager),
		manager: manager,
		codec:   codec,
		store:   store,
		server:  server,
	}
}

func newTestApp(m *Manager) *fiber.App {
	app := fiber.New()
	app.Post("/sign-in/:id", func(c fiber.Ctx) error {
		if !m.SignIn(c, c.Params("id")) {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/session", func(c fiber.Ctx) error {
		s := m.GetSession(c)
		for i := 0; i < 4; i++ {
			if again := m.GetSession(c); again != s {
				return c.SendStatus(fiber.StatusConflict)
			}
		}
		if s == nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(s)
	})
	app.Post("/sign-out", func(c fiber.Ctx) error {
		m.SignOut(c)
		if m.GetSession(c) != nil {
			return c.SendStatus(fiber.StatusConflict)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/cycle/:id", func(c fiber.Ctx) error {
		if !m.SignIn(c, c.Params("id")) {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if s := m.GetSession(c); s == nil || s.UserID != c.Params("id") {
			return c.SendStatus(fiber.StatusConflict)
		}
		m.SignOut(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/protected", m.Require(), func(c fiber.Ctx) error {
		return c.SendString(m.GetSession(c).UserID)
	})
	app.Get("/api/me", m.BearerAuth(), func(c fiber.Ctx) error {
		return c.SendString(m.GetSession(c).UserID)
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, credential string, headers ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if credential != "" {
		req.Header.Set("Cookie", DefaultCookieName+"="+credential)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	return res
}

func authCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	return nil
}

func isCleared(c *http.Cookie) bool {
	if c == nil || c.Value != "" {
		return false
	}
	return c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now()))
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestSignInSetsSessionCookie(t *testing.T) {
	f := newFixture(t, Config{})

	res := send(t, f.app, http.MethodPost, "/sign-in/u1", "")
	require.Equal(t, fiber.StatusNoContent, res.StatusCode)

	cookie := authCookie(res)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 86400, cookie.MaxAge)

	p, err := f.codec.Codec.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), p.ExpiresAt, 2*time.Second)
}

func TestSignInSetsSecureCookieInProduction(t *testing.T) {
	f := newFixture(t, Config{Production: true})

	res := send(t, f.app, http.MethodPost, "/sign-in/u1", "")
	require.Equal(t, fiber.StatusNoContent, res.StatusCode)

	cookie := authCookie(res)
	require.NotNil(t, cookie)
	assert.True(t, cookie.Secure)
}

func TestSignInReportsFailureWithoutCookie(t *testing.T) {
	codec := token.NewCodec(token.Config{})
	m := NewManager(codec, &stubRevoker{}, Config{}, log.NopSink())
	app := newTestApp(m)

	res := send(t, app, http.MethodPost, "/sign-in/u1", "")
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
	assert.Nil(t, authCookie(res))
}

func TestGetSessionGate(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	valid, err := f.codec.Issue(token.Payload{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	t.Run("no cookie", func(t *testing.T) {
		res := send(t, f.app, http.MethodGet, "/session", "")
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("invalid credential", func(t *testing.T) {
		res := send(t, f.app, http.MethodGet, "/session", "not-a-token")
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("expired credential", func(t *testing.T) {
		expired, err := f.codec.Issue(token.Payload{UserID: "u1"}, -time.Second)
		require.NoError(t, err)
		res := send(t, f.app, http.MethodGet, "/session", expired)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("valid credential", func(t *testing.T) {
		res := send(t, f.app, http.MethodGet, "/session", valid)
		require.Equal(t, fiber.StatusOK, res.StatusCode)
		var s Session
		require.NoError(t, json.NewDecoder(res.Body).Decode(&s))
		assert.Equal(t, "u1", s.UserID)
	})

	t.Run("revoked credential", func(t *testing.T) {
		require.Equal(t, revocation.OutcomeRevoked, f.store.Revoke(ctx, valid))
		before := f.codec.verifies
		res := send(t, f.app, http.MethodGet, "/session", valid)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, before, f.codec.verifies, "revoked credential should not reach verification")
	})
}

func TestGetSessionIsMemoizedPerRequest(t *testing.T) {
	f := newFixture(t, Config{})
	credential, err := f.codec.Issue(token.Payload{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	res := send(t, f.app, http.MethodGet, "/session", credential)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, 1, f.codec.verifies)

	res = send(t, f.app, http.MethodGet, "/session", credential)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, 2, f.codec.verifies, "memo must not leak across requests")
}

func TestSignInSignOutEndToEnd(t *testing.T) {
	f := newFixture(t, Config{})

	res := send(t, f.app, http.MethodPost, "/sign-in/u1", "")
	require.Equal(t, fiber.StatusNoContent, res.StatusCode)
	cookie := authCookie(res)
	require.NotNil(t, cookie)

	res = send(t, f.app, http.MethodGet, "/session", cookie.Value)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"userId":"u1"}`, body(t, res))

	res = send(t, f.app, http.MethodPost, "/sign-out", cookie.Value)
	require.Equal(t, fiber.StatusNoContent, res.StatusCode)
	assert.True(t, isCleared(authCookie(res)), "sign-out should clear the cookie")

	res = send(t, f.app, http.MethodGet, "/session", cookie.Value)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.True(t, f.store.IsRevoked(context.Background(), cookie.Value))
	assert.True(t, f.server.Exists(revocation.DefaultKeyPrefix+cookie.Value))
}

func TestSignOutClearsCookieWhenRevocationUnavailable(t *testing.T) {
	codec := token.NewCodec(token.Config{Secret: "test-secret"})
	revoker := &stubRevoker{outcome: revocation.OutcomeUnavailable}
	app := newTestApp(NewManager(codec, revoker, Config{}, log.NopSink()))
	credential, err := codec.Issue(token.Payload{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	res := send(t, app, http.MethodPost, "/sign-out", credential)
	require.Equal(t, fiber.StatusNoContent, res.StatusCode)
	assert.True(t, isCleared(authCookie(res)))
	assert.Equal(t, []string{credential}, revoker.revokes)
}

func TestSignOutWithoutCookieStillClears(t *testing.T) {
	revoker := &stubRevoker{}
	app := newTestApp(NewManager(token.NewCodec(token.Config{Secret: "s"}), revoker, Config{}, log.NopSink()))

	res := send(t, app, http.MethodPost, "/sign-out", "")
	require.Equal(t, fiber.StatusNoContent, res.StatusCode)
	assert.True(t, isCleared(authCookie(res)))
	assert.Empty(t, revoker.revokes)
}

func TestSignOutRevokesCredentialIssuedInSameRequest(t *testing.T) {
	f := newFixture(t, Config{})

	res := send(t, f.app, http.MethodPost, "/cycle/u1", "")
	require.Equal(t, fiber.StatusNoContent, res.StatusCode)

	keys := f.server.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], revocation.DefaultKeyPrefix))
}

func TestRequire(t *testing.T) {
	f := newFixture(t, Config{})
	credential, err := f.codec.Issue(token.Payload{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	res := send(t, f.app, http.MethodGet, "/protected", "")
	require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body(t, res), `"UNAUTHORIZED"`)

	res = send(t, f.app, http.MethodGet, "/protected", credential)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "u1", body(t, res))
}

func TestBearerAuth(t *testing.T) {
	f := newFixture(t, Config{})
	credential, err := f.codec.Issue(token.Payload{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	res := send(t, f.app, http.MethodGet, "/api/me", "", "Authorization", "Bearer "+credential)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "u1", body(t, res))

	res = send(t, f.app, http.MethodGet, "/api/me", "", "Authorization", "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	res = send(t, f.app, http.MethodGet, "/api/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	require.Equal(t, revocation.OutcomeRevoked, f.store.Revoke(context.Background(), credential))
	res = send(t, f.app, http.MethodGet, "/api/me", "", "Authorization", "Bearer "+credential)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestBearerAuthAppliesCookieVerificationRules(t *testing.T) {
	const secret = "issuer-secret"
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	codec := token.NewCodec(token.Config{Secret: secret, Issuer: "skyline"})
	store := revocation.NewStore(client, codec, revocation.Config{}, log.NopSink())
	app := newTestApp(NewManager(codec, store, Config{}, log.NopSink()))

	sign := func(claims jwtgo.MapClaims) string {
		t.Helper()
		raw, err := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return raw
	}
	now := time.Now()

	tests := []struct {
		name   string
		claims jwtgo.MapClaims
	}{
		{name: "no exp", claims: jwtgo.MapClaims{"userId": "u1", "iat": now.Unix(), "iss": "skyline"}},
		{name: "foreign issuer", claims: jwtgo.MapClaims{"userId": "u1", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix(), "iss": "elsewhere"}},
		{name: "no issuer", claims: jwtgo.MapClaims{"userId": "u1", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix()}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			credential := sign(tc.claims)
			_, err := codec.Verify(credential)
			require.ErrorIs(t, err, token.ErrInvalidToken)

			res := send(t, app, http.MethodGet, "/api/me", "", "Authorization", "Bearer "+credential)
			assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		})
	}

	valid, err := codec.Issue(token.Payload{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	res := send(t, app, http.MethodGet, "/api/me", "", "Authorization", "Bearer "+valid)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}
