package categories

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ytnews/backend/pkg/response"
	"github.com/ytnews/backend/pkg/utils"
)

// CreateRequest is the body for POST /categories.
type CreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
}

// UpdateRequest is the body for PUT /categories/:id.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// Handler handles category HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a categories handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /categories (public).
func (h *Handler) List(c *gin.Context) {
	skip, limit := utils.Pagination(c, 100)
	list, err := h.repo.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Internal(c, "failed to load categories")
		return
	}
	response.OK(c, list)
}

// Get handles GET /categories/:id (public).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	cat, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "category not found")
		return
	}
	response.OK(c, cat)
}

// GetBySlug handles GET /categories/slug/:slug (public).
func (h *Handler) GetBySlug(c *gin.Context) {
	cat, err := h.repo.GetBySlug(c.Request.Context(), utils.NormalizeSlug(c.Param("slug")))
	if err != nil {
		response.NotFound(c, "category not found")
		return
	}
	response.OK(c, cat)
}

// Create handles POST /categories (moderator+).
func (h *Handler) Create(c *gin.Context) {
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
		response.BadRequest(c, "category with this slug already exists")
		return
	}

	cat, err := h.repo.Create(c.Request.Context(), strings.TrimSpace(req.Name), slug, req.Description)
	if err != nil {
		h.logger.Error("create category failed", zap.Error(err))
		response.Internal(c, "failed to create category")
		return
	}
	response.Created(c, cat)
}

// Update handles PUT /categories/:id (moderator+).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
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
			response.BadRequest(c, "category with this slug already exists")
			return
		}
		req.Slug = &slug
	}

	cat, err := h.repo.Update(c.Request.Context(), id, UpdateParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "category not found")
			return
		}
		h.logger.Error("update category failed", zap.Error(err))
		response.Internal(c, "failed to update category")
		return
	}
	response.OK(c, cat)
}

// Delete handles DELETE /categories/:id (moderator+).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	n, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to delete category")
		return
	}
	if n == 0 {
		response.NotFound(c, "category not found")
		return
	}
	response.NoContent(c)
}
