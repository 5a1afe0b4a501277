package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/helpinghand/internal/db"
)

const (
	contextUserIDKey = "userID"
	contextRoleKey   = "userRole"
)

// RequireAuth validates the Bearer token and stores the caller's identity
// on the request context.
func (a *API) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := a.tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(contextUserIDKey, claims.UserID)
		c.Set(contextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects callers without elevated privilege. It must run
// after RequireAuth.
func (a *API) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(c) {
			respondError(c, http.StatusForbidden, "admin privilege required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	if value, exists := c.Get(contextUserIDKey); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

func isAdmin(c *gin.Context) bool {
	value, exists := c.Get(contextRoleKey)
	if !exists {
		return false
	}
	role, ok := value.(string)
	return ok && role == db.RoleAdmin
}
