package organizations

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ytnews/backend/internal/employees"
	"github.com/ytnews/backend/internal/middleware"
	"github.com/ytnews/backend/internal/models"
	"github.com/ytnews/backend/pkg/response"
	"github.com/ytnews/backend/pkg/utils"
)

// CreateRequest is the body for POST /organizations.
type CreateRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Website     string `json:"website"`
	Email       string `json:"email"`
}

// UpdateRequest is the body for PUT /organizations/:id. Absent fields are
// left untouched.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Logo        *string `json:"logo"`
	Website     *string `json:"website"`
	Email       *string `json:"email"`
	IsActive    *bool   `json:"is_active"`
}

// Detail is the organization response with its active members embedded.
// The founder leads the list.
type Detail struct {
	*models.Organization
	Employees []employees.Member `json:"employees"`
}

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo      *Repository
	employees *employees.Repository
	logger    *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository, employees *employees.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, employees: employees, logger: logger}
}

// List handles GET /organizations (public, active only).
func (h *Handler) List(c *gin.Context) {
	skip, limit := utils.Pagination(c, 100)
	list, err := h.repo.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Internal(c, "failed to load organizations")
		return
	}
	response.OK(c, list)
}

// Get handles GET /organizations/:id (public).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	d, err := h.detail(c.Request.Context(), org)
	if err != nil {
		h.logger.Error("load organization members failed", zap.Error(err))
		response.Internal(c, "failed to load organization")
		return
	}
	response.OK(c, d)
}

// GetBySlug handles GET /organizations/slug/:slug (public).
func (h *Handler) GetBySlug(c *gin.Context) {
	org, err := h.repo.GetBySlug(c.Request.Context(), utils.NormalizeSlug(c.Param("slug")))
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	d, err := h.detail(c.Request.Context(), org)
	if err != nil {
		h.logger.Error("load organization members failed", zap.Error(err))
		response.Internal(c, "failed to load organization")
		return
	}
	response.OK(c, d)
}

// detail attaches the organization's active members to the response.
func (h *Handler) detail(ctx context.Context, org *models.Organization) (*Detail, error) {
	members, err := h.employees.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []employees.Member{}
	}
	return &Detail{Organization: org, Employees: members}, nil
}

// Create handles POST /organizations. The creator automatically becomes the
// organization's first employee.
func (h *Handler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	slug := utils.NormalizeSlug(req.Slug)
	if !utils.ValidSlug(slug) {
		response.BadRequest(c, "slug must be 2-64 chars, lowercase letters, numbers, hyphens only")
		return
	}
	if _, err := h.repo.GetBySlug(c.Request.Context(), slug); err == nil {
		response.BadRequest(c, "organization with this slug already exists")
		return
	}

	org, err := h.repo.Create(c.Request.Context(), CreateParams{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Logo:        req.Logo,
		Website:     req.Website,
		Email:       req.Email,
	})
	if err != nil {
		h.logger.Error("create organization failed", zap.Error(err))
		response.Internal(c, "failed to create organization")
		return
	}

	if _, err := h.employees.Create(c.Request.Context(), userID, org.ID, models.FounderPosition, true); err != nil {
		h.logger.Error("create founder employee failed", zap.Error(err), zap.String("organization_id", org.ID.String()))
		response.Internal(c, "failed to add you as founder")
		return
	}

	response.Created(c, org)
}

// Update handles PUT /organizations/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Slug != nil {
		slug := utils.NormalizeSlug(*req.Slug)
		if !utils.ValidSlug(slug) {
			response.BadRequest(c, "slug must be 2-64 chars, lowercase letters, numbers, hyphens only")
			return
		}
		if existing, err := h.repo.GetBySlug(c.Request.Context(), slug); err == nil && existing.ID != id {
			response.BadRequest(c, "organization with this slug already exists")
			return
		}
		req.Slug = &slug
	}

	org, err := h.repo.Update(c.Request.Context(), id, UpdateParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Logo:        req.Logo,
		Website:     req.Website,
		Email:       req.Email,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "organization not found")
			return
		}
		h.logger.Error("update organization failed", zap.Error(err))
		response.Internal(c, "failed to update organization")
		return
	}
	response.OK(c, org)
}

// Delete handles DELETE /organizations/:id (moderator+).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	n, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to delete organization")
		return
	}
	if n == 0 {
		response.NotFound(c, "organization not found")
		return
	}
	response.NoContent(c)
}
