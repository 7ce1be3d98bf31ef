package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"helpline-crm/internal/users"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

func bearerToken(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(raw, bearerPrefix), true
}

// RequireUser verifies the bearer token, loads the account and injects it
// into the request context. It does not perform role checks; those belong to
// internal/rbac.
func RequireUser(m *Manager, repo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := m.Verify(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		u, err := repo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		u.Normalize()
		if u.Inactive() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			return
		}

		users.SetCurrent(c, u)
		c.Next()
	}
}

// OptionalUser resolves an account when a valid token is present and stays
// silent otherwise. It must never guard a mutation route; any decode failure
// simply yields no identity.
func OptionalUser(m *Manager, repo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := m.Verify(tok, time.Now())
		if err != nil {
			c.Next()
			return
		}
		if u, err := repo.FindByID(c.Request.Context(), claims.UserID); err == nil {
			u.Normalize()
			users.SetCurrent(c, u)
		}
		c.Next()
	}
}
