package announcements

import (
	"errors"
	"strings"
	"time"

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

// CreateRequest is the body for POST /announcements.
type CreateRequest struct {
	Title          string      `json:"title" binding:"required,max=300"`
	Slug           string      `json:"slug" binding:"required"`
	Content        string      `json:"content" binding:"required"`
	Excerpt        string      `json:"excerpt"`
	CoverImage     string      `json:"cover_image"`
	Status         string      `json:"status"`
	OrganizationID *uuid.UUID  `json:"organization_id"`
	CategoryIDs    []uuid.UUID `json:"category_ids"`
}

// UpdateRequest is the body for PUT /announcements/:id. Absent fields are
// left untouched; category_ids, when present, replaces the whole set.
type UpdateRequest struct {
	Title          *string     `json:"title"`
	Slug           *string     `json:"slug"`
	Content        *string     `json:"content"`
	Excerpt        *string     `json:"excerpt"`
	CoverImage     *string     `json:"cover_image"`
	Status         *string     `json:"status"`
	OrganizationID *uuid.UUID  `json:"organization_id"`
	CategoryIDs    []uuid.UUID `json:"category_ids"`
}

// Handler handles announcement HTTP endpoints.
type Handler struct {
	repo      *Repository
	employees *employees.Repository
	logger    *zap.Logger
}

// NewHandler creates an announcements handler.
func NewHandler(repo *Repository, employees *employees.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, employees: employees, logger: logger}
}

// List handles GET /announcements (public). Published only, newest
// published first.
func (h *Handler) List(c *gin.Context) {
	skip, limit := utils.Pagination(c, 20)
	list, err := h.repo.ListPublished(c.Request.Context(), skip, limit)
	if err != nil {
		h.logger.Error("list announcements failed", zap.Error(err))
		response.Internal(c, "failed to load announcements")
		return
	}
	response.OK(c, list)
}

// ListAll handles GET /announcements/all (moderator+). Optional status and
// category filters.
func (h *Handler) ListAll(c *gin.Context) {
	skip, limit := utils.Pagination(c, 20)
	status := c.Query("status")
	if status != "" && !models.ValidAnnouncementStatus(status) {
		response.BadRequest(c, "invalid status filter")
		return
	}
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid category_id filter")
			return
		}
		categoryID = &id
	}
	list, err := h.repo.ListAll(c.Request.Context(), status, categoryID, skip, limit)
	if err != nil {
		h.logger.Error("list all announcements failed", zap.Error(err))
		response.Internal(c, "failed to load announcements")
		return
	}
	response.OK(c, list)
}

// visible reports whether the caller may see the announcement. Anything not
// published is hidden from non-moderators; a hidden row reads as absent.
func visible(c *gin.Context, status models.AnnouncementStatus) bool {
	return status == models.AnnouncementPublished || middleware.IsModerator(c)
}

// Get handles GET /announcements/:id (optional auth).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil || !visible(c, a.Status) {
		response.NotFound(c, "announcement not found")
		return
	}
	response.OK(c, a)
}

// GetBySlug handles GET /announcements/slug/:slug (optional auth).
func (h *Handler) GetBySlug(c *gin.Context) {
	a, err := h.repo.GetBySlug(c.Request.Context(), utils.NormalizeSlug(c.Param("slug")))
	if err != nil || !visible(c, a.Status) {
		response.NotFound(c, "announcement not found")
		return
	}
	response.OK(c, a)
}

// Create handles POST /announcements (moderator+). Creating directly as
// published stamps published_at.
func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
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
	status := req.Status
	if status == "" {
		status = string(models.AnnouncementDraft)
	}
	if !models.ValidAnnouncementStatus(status) {
		response.BadRequest(c, "invalid status")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.repo.GetBySlug(ctx, slug); err == nil {
		response.BadRequest(c, "announcement with this slug already exists")
		return
	}

	var employeeID *uuid.UUID
	if req.OrganizationID != nil {
		emp, err := h.employees.GetActiveByUserAndOrg(ctx, user.ID, *req.OrganizationID)
		if err != nil || !emp.CanPost {
			response.Forbidden(c, "no posting permission in this organization")
			return
		}
		employeeID = &emp.ID
	}

	a, err := h.repo.Create(ctx, CreateParams{
		Title:          strings.TrimSpace(req.Title),
		Slug:           slug,
		Content:        req.Content,
		Excerpt:        req.Excerpt,
		CoverImage:     req.CoverImage,
		Status:         models.AnnouncementStatus(status),
		AuthorID:       user.ID,
		OrganizationID: req.OrganizationID,
		EmployeeID:     employeeID,
		PublishedAt:    models.PublishedAtOnTransition(nil, status, time.Now().UTC()),
		CategoryIDs:    req.CategoryIDs,
	})
	if err != nil {
		h.logger.Error("create announcement failed", zap.Error(err))
		response.Internal(c, "failed to create announcement")
		return
	}
	response.Created(c, a)
}

// Update handles PUT /announcements/:id (moderator+). A draft moving to
// published gets published_at stamped only if it was never published before.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	current, err := h.repo.GetByID(ctx, id)
	if err != nil {
		response.NotFound(c, "announcement not found")
		return
	}

	if req.Slug != nil {
		slug := utils.NormalizeSlug(*req.Slug)
		if !utils.ValidSlug(slug) {
			response.BadRequest(c, "slug must be 2-64 chars, lowercase letters, numbers, hyphens only")
			return
		}
		if existing, err := h.repo.GetBySlug(ctx, slug); err == nil && existing.ID != id {
			response.BadRequest(c, "announcement with this slug already exists")
			return
		}
		req.Slug = &slug
	}

	params := UpdateParams{
		Title:          req.Title,
		Slug:           req.Slug,
		Content:        req.Content,
		Excerpt:        req.Excerpt,
		CoverImage:     req.CoverImage,
		OrganizationID: req.OrganizationID,
		CategoryIDs:    req.CategoryIDs,
	}
	if req.Status != nil {
		if !models.ValidAnnouncementStatus(*req.Status) {
			response.BadRequest(c, "invalid status")
			return
		}
		status := models.AnnouncementStatus(*req.Status)
		params.Status = &status
		if stamped := models.PublishedAtOnTransition(current.PublishedAt, *req.Status, time.Now().UTC()); stamped != current.PublishedAt {
			params.PublishedAt = stamped
		}
	}

	a, err := h.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "announcement not found")
			return
		}
		h.logger.Error("update announcement failed", zap.Error(err))
		response.Internal(c, "failed to update announcement")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /announcements/:id (moderator+).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}
	n, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete announcement failed", zap.Error(err))
		response.Internal(c, "failed to delete announcement")
		return
	}
	if n == 0 {
		response.NotFound(c, "announcement not found")
		return
	}
	response.NoContent(c)
}
