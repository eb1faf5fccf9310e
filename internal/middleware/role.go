package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ytnews/backend/internal/models"
	"github.com/ytnews/backend/pkg/response"
)

// RequireModerator allows moderators and admins. Admin passes every check a
// moderator passes.
func RequireModerator() gin.HandlerFunc {
	return RequireRole(models.RoleModerator, models.RoleAdmin)
}

// RequireAdmin allows admins only.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireRole returns a middleware that allows only the given roles. It must
// run after JWT.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			response.Forbidden(c, "not enough permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
