package joinrequests

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ytnews/backend/internal/middleware"
	"github.com/ytnews/backend/internal/models"
	"github.com/ytnews/backend/pkg/response"
)

// SubmitRequest is the body for POST /join-requests.
type SubmitRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Position       string    `json:"position" binding:"required,max=200"`
	Message        string    `json:"message"`
}

// store is the join request persistence surface the handler needs.
// *Repository implements it.
type store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error)
	GetPendingByUserAndOrg(ctx context.Context, userID, orgID uuid.UUID) (*models.JoinRequest, error)
	ListPendingByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.JoinRequest, error)
	Create(ctx context.Context, userID, orgID uuid.UUID, position, message string) (*models.JoinRequest, error)
	Accept(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error)
	Reject(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error)
}

// employeeDirectory answers "is this user currently employed here".
// *employees.Repository implements it.
type employeeDirectory interface {
	GetActiveByUserAndOrg(ctx context.Context, userID, orgID uuid.UUID) (*models.Employee, error)
}

// orgDirectory resolves target organizations for submitted requests.
// *organizations.Repository implements it.
type orgDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

// Handler handles the membership workflow endpoints.
type Handler struct {
	repo      store
	employees employeeDirectory
	orgs      orgDirectory
	logger    *zap.Logger
}

// NewHandler creates a join requests handler.
func NewHandler(repo store, employees employeeDirectory, orgs orgDirectory, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, employees: employees, orgs: orgs, logger: logger}
}

// Submit handles POST /join-requests. A user may hold at most one pending
// request per organization and may not request to join an organization they
// already belong to.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	ctx := c.Request.Context()

	if _, err := h.orgs.GetByID(ctx, req.OrganizationID); err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	if _, err := h.employees.GetActiveByUserAndOrg(ctx, userID, req.OrganizationID); err == nil {
		response.BadRequest(c, "already an employee of this organization")
		return
	}
	if _, err := h.repo.GetPendingByUserAndOrg(ctx, userID, req.OrganizationID); err == nil {
		response.BadRequest(c, "a pending request for this organization already exists")
		return
	}

	jr, err := h.repo.Create(ctx, userID, req.OrganizationID, req.Position, req.Message)
	if err != nil {
		h.logger.Error("create join request", zap.Error(err))
		response.Internal(c, "failed to create join request")
		return
	}
	response.Created(c, jr)
}

// ListByOrganization handles GET /join-requests/organization/:id. Only
// employees of the organization may see its pending requests.
func (h *Handler) ListByOrganization(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.employees.GetActiveByUserAndOrg(ctx, userID, orgID); err != nil {
		response.Forbidden(c, "not an employee of this organization")
		return
	}
	list, err := h.repo.ListPendingByOrganization(ctx, orgID)
	if err != nil {
		h.logger.Error("list join requests", zap.Error(err))
		response.Internal(c, "failed to load join requests")
		return
	}
	response.OK(c, list)
}

// Accept handles POST /join-requests/:id/accept.
func (h *Handler) Accept(c *gin.Context) {
	h.decide(c, h.repo.Accept)
}

// Reject handles POST /join-requests/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.repo.Reject)
}

// decide runs the shared gates for accept and reject: the request must
// exist, the caller must be an employee of its organization, and the
// request must still be pending.
func (h *Handler) decide(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid join request id")
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	ctx := c.Request.Context()

	jr, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "join request not found")
			return
		}
		h.logger.Error("load join request", zap.Error(err))
		response.Internal(c, "failed to load join request")
		return
	}
	if _, err := h.employees.GetActiveByUserAndOrg(ctx, userID, jr.OrganizationID); err != nil {
		response.Forbidden(c, "not an employee of this organization")
		return
	}

	jr, err = apply(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotPending) {
			response.BadRequest(c, "join request has already been decided")
			return
		}
		h.logger.Error("decide join request", zap.Error(err))
		response.Internal(c, "failed to update join request")
		return
	}
	response.OK(c, jr)
}
