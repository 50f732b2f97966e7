package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archie46/loan-management/internal/domain/role"
)

// RequireRole gates a dashboard group to sessions holding one of the allowed
// roles. Anyone else is bounced to their own landing page rather than shown
// a bare 403.
func RequireRole(allowed ...role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		for _, r := range allowed {
			if sess.HasRole(r) {
				c.Next()
				return
			}
		}

		c.Redirect(http.StatusFound, sess.Landing())
		c.Abort()
	}
}
