package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archie46/loan-management/internal/session"
)

const sessionKey = "session"

// RequireSession resolves the session cookie against the store and aborts to
// the login page when there is none. An expired Redis entry behaves exactly
// like a missing cookie: the user logs in again.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), cookie.Value)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session set by RequireSession. Handlers behind the
// middleware can rely on it being present.
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
