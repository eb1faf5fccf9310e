package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ytnews/backend/internal/auth"
	"github.com/ytnews/backend/internal/models"
	"github.com/ytnews/backend/pkg/response"
)

const (
	// ContextUser is the key for the authenticated *models.User in gin context.
	ContextUser = "user"
	// ContextUserID is the key for the authenticated user's ID.
	ContextUserID = "user_id"
	// ContextUserRole is the key for the authenticated user's role.
	ContextUserRole = "user_role"
)

// UserLoader fetches the user behind a token subject. The role and active
// flag come from the store on every request, not from the token.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func resolveUser(c *gin.Context, jwtService *auth.JWTService, users UserLoader) *models.User {
	token, ok := bearerToken(c)
	if !ok {
		return nil
	}
	claims, err := jwtService.Validate(token)
	if err != nil {
		return nil
	}
	user, err := users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		return nil
	}
	return user
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(ContextUser, user)
	c.Set(ContextUserID, user.ID)
	c.Set(ContextUserRole, string(user.Role))
}

// JWT returns a middleware that requires a valid bearer token for an active
// user. Invalid, expired, malformed tokens and inactive users are all
// rejected with 401.
func JWT(jwtService *auth.JWTService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := bearerToken(c); !ok {
			response.Unauthorized(c, "missing or invalid authorization header")
			c.Abort()
			return
		}
		user := resolveUser(c, jwtService, users)
		if user == nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// OptionalJWT returns a middleware that attaches the user when a valid token
// is present and treats every failure as anonymous.
func OptionalJWT(jwtService *auth.JWTService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, jwtService, users); user != nil {
			setUser(c, user)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by JWT or OptionalJWT.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentUserID returns the authenticated user's ID.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// IsModerator reports whether the request carries a moderator or admin user.
func IsModerator(c *gin.Context) bool {
	user, ok := CurrentUser(c)
	return ok && user.IsModerator()
}
