package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tahoak/park-collective/internal/httperr"
)

// RequireRole allows the request when the user holds any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			httperr.Unauthorized(c, "missing_user_context", "Authentication required.")
			c.Abort()
			return
		}
		for _, r := range roles {
			if HasRole(c, r) {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Insufficient permissions.")
		c.Abort()
	}
}
