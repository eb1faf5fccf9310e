package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ytnews/backend/internal/models"
)

func doRoleRequest(t *testing.T, mw gin.HandlerFunc, user *models.User) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if user != nil {
		r.Use(func(c *gin.Context) { setUser(c, user) })
	}
	r.Use(mw)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func userWithRole(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Email: "u@x.com", Role: role, IsActive: true}
}

func TestRequireModerator(t *testing.T) {
	assert.Equal(t, http.StatusOK, doRoleRequest(t, RequireModerator(), userWithRole(models.RoleModerator)))
	// admin is a strict superset of moderator
	assert.Equal(t, http.StatusOK, doRoleRequest(t, RequireModerator(), userWithRole(models.RoleAdmin)))
	assert.Equal(t, http.StatusForbidden, doRoleRequest(t, RequireModerator(), userWithRole(models.RoleUser)))
	assert.Equal(t, http.StatusUnauthorized, doRoleRequest(t, RequireModerator(), nil))
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, doRoleRequest(t, RequireAdmin(), userWithRole(models.RoleAdmin)))
	// moderator does not imply admin
	assert.Equal(t, http.StatusForbidden, doRoleRequest(t, RequireAdmin(), userWithRole(models.RoleModerator)))
	assert.Equal(t, http.StatusForbidden, doRoleRequest(t, RequireAdmin(), userWithRole(models.RoleUser)))
}

func TestIsModerator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, IsModerator(c))

	setUser(c, userWithRole(models.RoleUser))
	assert.False(t, IsModerator(c))

	setUser(c, userWithRole(models.RoleModerator))
	assert.True(t, IsModerator(c))

	setUser(c, userWithRole(models.RoleAdmin))
	assert.True(t, IsModerator(c))
}
