package session

import "github.com/gofiber/fiber/v3"

type localsKey struct{}

// scope memoizes the session for the lifetime of one request. It lives in
// fiber Locals, so nothing is shared between requests.
type scope struct {
	resolved bool
	session  *Session
	// issued holds a credential minted during this request by SignIn.
	issued string
}

func requestScope(c fiber.Ctx) *scope {
	if sc, ok := c.Locals(localsKey{}).(*scope); ok {
		return sc
	}
	sc := &scope{}
	c.Locals(localsKey{}, sc)
	return sc
}

func (sc *scope) set(s *Session) {
	sc.resolved = true
	sc.session = s
}
