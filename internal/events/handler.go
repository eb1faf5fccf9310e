package events

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ytnews/backend/internal/middleware"
	"github.com/ytnews/backend/internal/models"
	"github.com/ytnews/backend/pkg/response"
	"github.com/ytnews/backend/pkg/utils"
)

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Title                string     `json:"title" binding:"required,max=300"`
	Slug                 string     `json:"slug" binding:"required"`
	Description          string     `json:"description" binding:"required"`
	Excerpt              string     `json:"excerpt"`
	CoverImage           string     `json:"cover_image"`
	Location             string     `json:"location"`
	EventDate            time.Time  `json:"event_date" binding:"required"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	MaxParticipants      *int       `json:"max_participants"`
	Status               string     `json:"status"`
	OrganizationID       *uuid.UUID `json:"organization_id"`
}

// UpdateRequest is the body for PUT /events/:id. Absent fields are left
// untouched.
type UpdateRequest struct {
	Title                *string    `json:"title"`
	Slug                 *string    `json:"slug"`
	Description          *string    `json:"description"`
	Excerpt              *string    `json:"excerpt"`
	CoverImage           *string    `json:"cover_image"`
	Location             *string    `json:"location"`
	EventDate            *time.Time `json:"event_date"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	MaxParticipants      *int       `json:"max_participants"`
	Status               *string    `json:"status"`
	OrganizationID       *uuid.UUID `json:"organization_id"`
}

// RegisterRequest is the body for POST /events/:id/register. Guest fields
// are required only for anonymous callers.
type RegisterRequest struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	Notes      string `json:"notes"`
}

// Handler handles event and registration HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /events (optional auth). The public sees published
// events only; the status filter works for moderators.
func (h *Handler) List(c *gin.Context) {
	skip, limit := utils.Pagination(c, 20)
	status := string(models.EventPublished)
	if raw := c.Query("status"); raw != "" && middleware.IsModerator(c) {
		if !models.ValidEventStatus(raw) {
			response.BadRequest(c, "invalid status filter")
			return
		}
		status = raw
	}
	list, err := h.repo.List(c.Request.Context(), status, skip, limit)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	response.OK(c, list)
}

// ListUpcoming handles GET /events/upcoming (public).
func (h *Handler) ListUpcoming(c *gin.Context) {
	skip, limit := utils.Pagination(c, 20)
	list, err := h.repo.ListUpcoming(c.Request.Context(), skip, limit)
	if err != nil {
		h.logger.Error("list upcoming events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	response.OK(c, list)
}

// visible reports whether the caller may see the event. Anything not
// published is hidden from non-moderators; a hidden row reads as absent.
func visible(c *gin.Context, status models.EventStatus) bool {
	return status == models.EventPublished || middleware.IsModerator(c)
}

// Get handles GET /events/:id (optional auth).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil || !visible(c, e.Status) {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// GetBySlug handles GET /events/slug/:slug (optional auth).
func (h *Handler) GetBySlug(c *gin.Context) {
	e, err := h.repo.GetBySlug(c.Request.Context(), utils.NormalizeSlug(c.Param("slug")))
	if err != nil || !visible(c, e.Status) {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Create handles POST /events (moderator+). Creating directly as published
// stamps published_at.
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
		status = string(models.EventDraft)
	}
	if !models.ValidEventStatus(status) {
		response.BadRequest(c, "invalid status")
		return
	}
	if req.MaxParticipants != nil && *req.MaxParticipants < 1 {
		response.BadRequest(c, "max_participants must be positive")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.repo.GetBySlug(ctx, slug); err == nil {
		response.BadRequest(c, "event with this slug already exists")
		return
	}

	e, err := h.repo.Create(ctx, CreateParams{
		Title:                strings.TrimSpace(req.Title),
		Slug:                 slug,
		Description:          req.Description,
		Excerpt:              req.Excerpt,
		CoverImage:           req.CoverImage,
		Location:             req.Location,
		EventDate:            req.EventDate,
		RegistrationDeadline: req.RegistrationDeadline,
		MaxParticipants:      req.MaxParticipants,
		Status:               models.EventStatus(status),
		AuthorID:             user.ID,
		OrganizationID:       req.OrganizationID,
		PublishedAt:          models.PublishedAtOnTransition(nil, status, time.Now().UTC()),
	})
	if err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// Update handles PUT /events/:id (moderator+). First publish stamps
// published_at; later publish cycles leave it untouched.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
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
		response.NotFound(c, "event not found")
		return
	}

	if req.Slug != nil {
		slug := utils.NormalizeSlug(*req.Slug)
		if !utils.ValidSlug(slug) {
			response.BadRequest(c, "slug must be 2-64 chars, lowercase letters, numbers, hyphens only")
			return
		}
		if existing, err := h.repo.GetBySlug(ctx, slug); err == nil && existing.ID != id {
			response.BadRequest(c, "event with this slug already exists")
			return
		}
		req.Slug = &slug
	}
	if req.MaxParticipants != nil && *req.MaxParticipants < 1 {
		response.BadRequest(c, "max_participants must be positive")
		return
	}

	params := UpdateParams{
		Title:                req.Title,
		Slug:                 req.Slug,
		Description:          req.Description,
		Excerpt:              req.Excerpt,
		CoverImage:           req.CoverImage,
		Location:             req.Location,
		EventDate:            req.EventDate,
		RegistrationDeadline: req.RegistrationDeadline,
		MaxParticipants:      req.MaxParticipants,
		OrganizationID:       req.OrganizationID,
	}
	if req.Status != nil {
		if !models.ValidEventStatus(*req.Status) {
			response.BadRequest(c, "invalid status")
			return
		}
		status := models.EventStatus(*req.Status)
		params.Status = &status
		if stamped := models.PublishedAtOnTransition(current.PublishedAt, *req.Status, time.Now().UTC()); stamped != current.PublishedAt {
			params.PublishedAt = stamped
		}
	}

	e, err := h.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("update event failed", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /events/:id (admin only). Registrations are removed
// by the cascade.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	n, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete event failed", zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	if n == 0 {
		response.NotFound(c, "event not found")
		return
	}
	response.NoContent(c)
}

// Register handles POST /events/:id/register (optional auth). Authenticated
// callers register under their own identity and any guest fields in the body
// are ignored. The capacity and duplicate checks read current state first
// and then insert; they are not serialized.
func (h *Handler) Register(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	// an empty body is fine for authenticated callers
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	e, err := h.repo.GetByID(ctx, id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}

	user, authenticated := middleware.CurrentUser(c)
	if err := ValidateGuest(authenticated, strings.TrimSpace(req.GuestName), strings.TrimSpace(req.GuestEmail)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	confirmed, err := h.repo.CountConfirmed(ctx, id)
	if err != nil {
		h.logger.Error("count registrations failed", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}
	if err := Eligible(e, confirmed, time.Now().UTC()); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var userID *uuid.UUID
	guestName, guestEmail, guestPhone := req.GuestName, req.GuestEmail, req.GuestPhone
	if authenticated {
		userID = &user.ID
		guestName, guestEmail, guestPhone = "", "", ""
		if _, err := h.repo.GetRegistrationByUser(ctx, id, user.ID); err == nil {
			response.BadRequest(c, "already registered for this event")
			return
		}
	} else {
		guestEmail = strings.ToLower(strings.TrimSpace(guestEmail))
		if _, err := h.repo.GetRegistrationByGuestEmail(ctx, id, guestEmail); err == nil {
			response.BadRequest(c, "this email is already registered for this event")
			return
		}
	}

	reg, err := h.repo.CreateRegistration(ctx, id, userID, guestName, guestEmail, guestPhone, req.Notes)
	if err != nil {
		h.logger.Error("create registration failed", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}
	response.Created(c, reg)
}

// ListRegistrations handles GET /events/:id/registrations (moderator+).
func (h *Handler) ListRegistrations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.repo.GetByID(ctx, id); err != nil {
		response.NotFound(c, "event not found")
		return
	}
	list, err := h.repo.ListRegistrations(ctx, id)
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "failed to load registrations")
		return
	}
	response.OK(c, list)
}

// MyRegistrations handles GET /events/registrations/my (authenticated).
func (h *Handler) MyRegistrations(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	list, err := h.repo.ListRegistrationsByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list my registrations failed", zap.Error(err))
		response.Internal(c, "failed to load registrations")
		return
	}
	response.OK(c, list)
}

// DeleteRegistration handles DELETE /events/registrations/:id
// (authenticated). Only the owning user may remove a registration; guest
// rows have no owner, so they cannot be removed through this endpoint.
func (h *Handler) DeleteRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	ctx := c.Request.Context()
	reg, err := h.repo.GetRegistration(ctx, id)
	if err != nil {
		response.NotFound(c, "registration not found")
		return
	}
	if reg.UserID == nil || *reg.UserID != userID {
		response.Forbidden(c, "not your registration")
		return
	}
	if _, err := h.repo.DeleteRegistration(ctx, id); err != nil {
		h.logger.Error("delete registration failed", zap.Error(err))
		response.Internal(c, "failed to delete registration")
		return
	}
	response.NoContent(c)
}
