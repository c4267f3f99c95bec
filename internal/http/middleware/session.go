package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ishaan2692/matchify/internal/session"
)

const (
	// SessionHeader carries the caller's session ID on requests and responses.
	SessionHeader = "X-Session-ID"
	// SessionLocalKey is the key used to store the session in Fiber's context locals.
	SessionLocalKey = "session"
)

// Session resolves the caller's session and stores it in context locals.
//
// Behavior:
// - Reads X-Session-ID from the incoming request header.
// - A missing or malformed ID starts a brand new session.
// - Marks the session active and stores it under SessionLocalKey.
// - Adds X-Session-ID to the response header so the client can stick to it.
func Session(mgr *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Get(SessionHeader))
		if err != nil {
			id = uuid.New()
		}

		sess := mgr.GetOrCreate(id)
		c.Locals(SessionLocalKey, sess)
		c.Set(SessionHeader, sess.ID.String())

		return c.Next()
	}
}

// SessionFromCtx returns the session stored by the Session middleware, or
// nil when the middleware did not run.
func SessionFromCtx(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(SessionLocalKey).(*session.Session)
	return sess
}
