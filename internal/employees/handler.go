package employees

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ytnews/backend/internal/middleware"
	"github.com/ytnews/backend/pkg/response"
)

// CreateRequest is the body for POST /employees.
type CreateRequest struct {
	UserID         string `json:"user_id" binding:"required,uuid"`
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Position       string `json:"position" binding:"required"`
	CanPost        *bool  `json:"can_post"`
}

// UpdateRequest is the body for PUT /employees/:id.
type UpdateRequest struct {
	Position *string `json:"position"`
	IsActive *bool   `json:"is_active"`
	CanPost  *bool   `json:"can_post"`
}

// Handler handles employee HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an employees handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// MyOrganizations handles GET /employees/my-organizations.
func (h *Handler) MyOrganizations(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load employments")
		return
	}
	response.OK(c, list)
}

// ListByOrganization handles GET /employees/organization/:id (public).
func (h *Handler) ListByOrganization(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	list, err := h.repo.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load employees")
		return
	}
	response.OK(c, list)
}

// Create handles POST /employees. Rejects a second record for the same
// (user, organization) pair.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID, _ := uuid.Parse(req.UserID)
	orgID, _ := uuid.Parse(req.OrganizationID)

	if _, err := h.repo.GetByUserAndOrg(c.Request.Context(), userID, orgID); err == nil {
		response.BadRequest(c, "user already employed by this organization")
		return
	}

	canPost := true
	if req.CanPost != nil {
		canPost = *req.CanPost
	}
	employee, err := h.repo.Create(c.Request.Context(), userID, orgID, req.Position, canPost)
	if err != nil {
		h.logger.Error("create employee failed", zap.Error(err))
		response.Internal(c, "failed to create employee")
		return
	}
	response.Created(c, employee)
}

// Update handles PUT /employees/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid employee id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	employee, err := h.repo.Update(c.Request.Context(), id, UpdateParams{
		Position: req.Position,
		IsActive: req.IsActive,
		CanPost:  req.CanPost,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "employee not found")
			return
		}
		response.Internal(c, "failed to update employee")
		return
	}
	response.OK(c, employee)
}

// Delete handles DELETE /employees/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid employee id")
		return
	}
	n, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to delete employee")
		return
	}
	if n == 0 {
		response.NotFound(c, "employee not found")
		return
	}
	response.NoContent(c)
}
