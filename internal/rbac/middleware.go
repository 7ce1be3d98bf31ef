package rbac

import (
	"net/http"
	"strings"

	"helpline-crm/internal/users"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows the request through if the authenticated account
// holds one of the given roles. It assumes auth.RequireUser ran earlier in
// the chain; a missing identity is treated as unauthenticated, not forbidden.
func RequireAnyRole(allowed ...users.Role) gin.HandlerFunc {
	allowedSet := make(map[users.Role]struct{}, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
		names = append(names, string(r))
	}
	detail := "Access denied. Required roles: " + strings.Join(names, ", ")

	return func(c *gin.Context) {
		u, ok := users.Current(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if _, ok := allowedSet[u.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": detail})
			return
		}
		c.Next()
	}
}

// The three fixed policies used throughout the API.

func RequireAdmin() gin.HandlerFunc {
	return RequireAnyRole(users.RoleAdmin)
}

func RequireSupervisorOrAdmin() gin.HandlerFunc {
	return RequireAnyRole(users.RoleAdmin, users.RoleSupervisor)
}

func RequireAnyStaff() gin.HandlerFunc {
	return RequireAnyRole(users.RoleAdmin, users.RoleSupervisor, users.RoleAgent)
}
