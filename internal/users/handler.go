package users

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ytnews/backend/internal/middleware"
	"github.com/ytnews/backend/internal/models"
	"github.com/ytnews/backend/pkg/response"
	"github.com/ytnews/backend/pkg/utils"
)

// CreateRequest is the body for POST /users (admin only).
type CreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

// UpdateRequest is the body for PUT /users/:id and PUT /users/me. Absent
// fields are left untouched.
type UpdateRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Handler handles user HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	response.OK(c, user.ToPublic())
}

// UpdateMe handles PUT /users/me. Users cannot change their own role.
func (h *Handler) UpdateMe(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Role != nil && models.Role(*req.Role) != user.Role {
		response.Forbidden(c, "cannot change own role")
		return
	}

	params, errMsg := h.updateParams(req)
	if errMsg != "" {
		response.BadRequest(c, errMsg)
		return
	}
	params.Role = nil
	params.IsActive = nil

	updated, err := h.repo.Update(c.Request.Context(), user.ID, params)
	if err != nil {
		h.logger.Error("update user failed", zap.Error(err))
		response.Internal(c, "failed to update user")
		return
	}
	response.OK(c, updated.ToPublic())
}

// List handles GET /users (admin only).
func (h *Handler) List(c *gin.Context) {
	skip, limit := utils.Pagination(c, 100)
	list, err := h.repo.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// Create handles POST /users (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.RoleUser
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			response.BadRequest(c, "invalid role")
			return
		}
		role = models.Role(req.Role)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.repo.GetByEmail(c.Request.Context(), email); err == nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	user, err := h.repo.Create(c.Request.Context(), email, hash, req.FullName, role)
	if err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}
	response.Created(c, user.ToPublic())
}

// Get handles GET /users/:id (admin only).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// Update handles PUT /users/:id (admin only). An admin cannot change their
// own role or deactivate themselves.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	current, _ := middleware.CurrentUser(c)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if id == current.ID {
		if req.Role != nil && models.Role(*req.Role) != current.Role {
			response.Forbidden(c, "cannot change your own role")
			return
		}
		if req.IsActive != nil && !*req.IsActive {
			response.Forbidden(c, "cannot deactivate yourself")
			return
		}
	}

	params, errMsg := h.updateParams(req)
	if errMsg != "" {
		response.BadRequest(c, errMsg)
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), id, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("update user failed", zap.Error(err))
		response.Internal(c, "failed to update user")
		return
	}
	response.OK(c, updated.ToPublic())
}

// Delete handles DELETE /users/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	current, _ := middleware.CurrentUser(c)
	if id == current.ID {
		response.BadRequest(c, "cannot delete yourself")
		return
	}
	n, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to delete user")
		return
	}
	if n == 0 {
		response.NotFound(c, "user not found")
		return
	}
	response.NoContent(c)
}

func (h *Handler) updateParams(req UpdateRequest) (UpdateParams, string) {
	var params UpdateParams
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		params.Email = &email
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return params, "password must be at least 6 characters"
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return params, "invalid password"
		}
		params.PasswordHash = &hash
	}
	if req.FullName != nil {
		params.FullName = req.FullName
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return params, "invalid role"
		}
		role := models.Role(*req.Role)
		params.Role = &role
	}
	params.IsActive = req.IsActive
	return params, ""
}
