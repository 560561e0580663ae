package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/auth"
	"github.com/tahoak/park-collective/internal/httperr"
)

const (
	ContextUserID    = "userID"
	ContextUserRoles = "userRoles"
)

// Auth requires a valid bearer token.
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header required.")
			c.Abort()
			return
		}

		claims, ok := parseBearer(jwtService, header)
		if !ok {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present and lets
// anonymous requests through. A malformed token is still rejected.
func OptionalAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		claims, ok := parseBearer(jwtService, header)
		if !ok {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func parseBearer(jwtService *auth.JWTService, header string) (*auth.Claims, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	claims, err := jwtService.Validate(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRoles, claims.Roles)
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func Roles(c *gin.Context) []string {
	v, _ := c.Get(ContextUserRoles)
	roles, _ := v.([]string)
	return roles
}

func HasRole(c *gin.Context, role string) bool {
	for _, r := range Roles(c) {
		if r == role {
			return true
		}
	}
	return false
}
