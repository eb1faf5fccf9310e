package joinrequests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ytnews/backend/internal/middleware"
	"github.com/ytnews/backend/internal/models"
)

// fakeStore keeps a single join request in memory and mimics the
// repository's transition semantics: only pending requests can be decided.
type fakeStore struct {
	request *models.JoinRequest
	accepts int
	rejects int
	creates int
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	if f.request == nil || f.request.ID != id {
		return nil, pgx.ErrNoRows
	}
	return f.request, nil
}

func (f *fakeStore) GetPendingByUserAndOrg(_ context.Context, userID, orgID uuid.UUID) (*models.JoinRequest, error) {
	if f.request != nil && f.request.Status == models.JoinRequestPending &&
		f.request.UserID == userID && f.request.OrganizationID == orgID {
		return f.request, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) ListPendingByOrganization(_ context.Context, orgID uuid.UUID) ([]models.JoinRequest, error) {
	if f.request != nil && f.request.Status == models.JoinRequestPending && f.request.OrganizationID == orgID {
		return []models.JoinRequest{*f.request}, nil
	}
	return nil, nil
}

func (f *fakeStore) Create(_ context.Context, userID, orgID uuid.UUID, position, message string) (*models.JoinRequest, error) {
	f.creates++
	f.request = &models.JoinRequest{
		ID:             uuid.New(),
		UserID:         userID,
		OrganizationID: orgID,
		Position:       position,
		Message:        message,
		Status:         models.JoinRequestPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	return f.request, nil
}

func (f *fakeStore) Accept(_ context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	f.accepts++
	if f.request == nil || f.request.ID != id || f.request.Status != models.JoinRequestPending {
		return nil, ErrNotPending
	}
	f.request.Status = models.JoinRequestAccepted
	return f.request, nil
}

func (f *fakeStore) Reject(_ context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	f.rejects++
	if f.request == nil || f.request.ID != id || f.request.Status != models.JoinRequestPending {
		return nil, ErrNotPending
	}
	f.request.Status = models.JoinRequestRejected
	return f.request, nil
}

// fakeEmployees treats the caller as an active employee of the listed orgs.
type fakeEmployees struct {
	memberOf map[uuid.UUID]bool
}

func (f *fakeEmployees) GetActiveByUserAndOrg(_ context.Context, userID, orgID uuid.UUID) (*models.Employee, error) {
	if f.memberOf[orgID] {
		return &models.Employee{ID: uuid.New(), UserID: userID, OrganizationID: orgID, IsActive: true}, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeOrgs struct {
	known map[uuid.UUID]bool
}

func (f *fakeOrgs) GetByID(_ context.Context, id uuid.UUID) (*models.Organization, error) {
	if f.known[id] {
		return &models.Organization{ID: id, IsActive: true}, nil
	}
	return nil, pgx.ErrNoRows
}

type workflowFixture struct {
	store     *fakeStore
	employees *fakeEmployees
	orgs      *fakeOrgs
	router    *gin.Engine
	userID    uuid.UUID
}

func newWorkflowFixture(authed bool) *workflowFixture {
	gin.SetMode(gin.TestMode)
	f := &workflowFixture{
		store:     &fakeStore{},
		employees: &fakeEmployees{memberOf: map[uuid.UUID]bool{}},
		orgs:      &fakeOrgs{known: map[uuid.UUID]bool{}},
		userID:    uuid.New(),
	}
	h := NewHandler(f.store, f.employees, f.orgs, zap.NewNop())
	r := gin.New()
	if authed {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUser, &models.User{ID: f.userID, Role: models.RoleUser, IsActive: true})
			c.Set(middleware.ContextUserID, f.userID)
			c.Set(middleware.ContextUserRole, string(models.RoleUser))
		})
	}
	r.POST("/join-requests", h.Submit)
	r.GET("/join-requests/organization/:id", h.ListByOrganization)
	r.POST("/join-requests/:id/accept", h.Accept)
	r.POST("/join-requests/:id/reject", h.Reject)
	f.router = r
	return f
}

// pendingRequest seeds a pending request from another user to an org the
// fixture user belongs to.
func (f *workflowFixture) pendingRequest() *models.JoinRequest {
	orgID := uuid.New()
	f.orgs.known[orgID] = true
	f.employees.memberOf[orgID] = true
	f.store.request = &models.JoinRequest{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		OrganizationID: orgID,
		Position:       "Editor",
		Status:         models.JoinRequestPending,
	}
	return f.store.request
}

func (f *workflowFixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func submitBody(orgID uuid.UUID) string {
	raw, _ := json.Marshal(gin.H{"organization_id": orgID, "position": "Editor"})
	return string(raw)
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	f := newWorkflowFixture(true)
	orgID := uuid.New()
	f.orgs.known[orgID] = true

	w := f.do(http.MethodPost, "/join-requests", submitBody(orgID))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, f.store.creates)
	require.NotNil(t, f.store.request)
	assert.Equal(t, models.JoinRequestPending, f.store.request.Status)
	assert.Equal(t, f.userID, f.store.request.UserID)
}

func TestSubmitUnknownOrganization(t *testing.T) {
	f := newWorkflowFixture(true)
	w := f.do(http.MethodPost, "/join-requests", submitBody(uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, f.store.creates)
}

func TestSubmitBlockedForCurrentEmployee(t *testing.T) {
	f := newWorkflowFixture(true)
	orgID := uuid.New()
	f.orgs.known[orgID] = true
	f.employees.memberOf[orgID] = true

	w := f.do(http.MethodPost, "/join-requests", submitBody(orgID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.store.creates)
}

func TestSubmitBlockedWhilePending(t *testing.T) {
	f := newWorkflowFixture(true)
	orgID := uuid.New()
	f.orgs.known[orgID] = true
	f.store.request = &models.JoinRequest{
		ID:             uuid.New(),
		UserID:         f.userID,
		OrganizationID: orgID,
		Status:         models.JoinRequestPending,
	}

	w := f.do(http.MethodPost, "/join-requests", submitBody(orgID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.store.creates)
}

func TestSubmitAllowedAfterReject(t *testing.T) {
	f := newWorkflowFixture(true)
	orgID := uuid.New()
	f.orgs.known[orgID] = true
	// an earlier rejected request does not block a new ask
	f.store.request = &models.JoinRequest{
		ID:             uuid.New(),
		UserID:         f.userID,
		OrganizationID: orgID,
		Status:         models.JoinRequestRejected,
	}

	w := f.do(http.MethodPost, "/join-requests", submitBody(orgID))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, f.store.creates)
}

func TestAcceptPendingRequest(t *testing.T) {
	f := newWorkflowFixture(true)
	jr := f.pendingRequest()

	w := f.do(http.MethodPost, "/join-requests/"+jr.ID.String()+"/accept", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.JoinRequestAccepted, f.store.request.Status)
	assert.Equal(t, 1, f.store.accepts)
}

func TestRejectPendingRequest(t *testing.T) {
	f := newWorkflowFixture(true)
	jr := f.pendingRequest()

	w := f.do(http.MethodPost, "/join-requests/"+jr.ID.String()+"/reject", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.JoinRequestRejected, f.store.request.Status)
}

func TestDecideAlreadyDecided(t *testing.T) {
	for _, terminal := range []models.JoinRequestStatus{models.JoinRequestAccepted, models.JoinRequestRejected} {
		f := newWorkflowFixture(true)
		jr := f.pendingRequest()
		f.store.request.Status = terminal

		w := f.do(http.MethodPost, "/join-requests/"+jr.ID.String()+"/accept", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, string(terminal))

		w = f.do(http.MethodPost, "/join-requests/"+jr.ID.String()+"/reject", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, string(terminal))
		assert.Equal(t, terminal, f.store.request.Status)
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	f := newWorkflowFixture(true)
	w := f.do(http.MethodPost, "/join-requests/"+uuid.NewString()+"/accept", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, f.store.accepts)
}

func TestDecideRequiresMembership(t *testing.T) {
	f := newWorkflowFixture(true)
	jr := f.pendingRequest()
	f.employees.memberOf[jr.OrganizationID] = false

	w := f.do(http.MethodPost, "/join-requests/"+jr.ID.String()+"/accept", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, f.store.accepts)
	assert.Equal(t, models.JoinRequestPending, f.store.request.Status)
}

func TestListByOrganizationRequiresMembership(t *testing.T) {
	f := newWorkflowFixture(true)
	jr := f.pendingRequest()

	w := f.do(http.MethodGet, "/join-requests/organization/"+jr.OrganizationID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/join-requests/organization/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWorkflowRequestGates(t *testing.T) {
	f := newWorkflowFixture(true)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/join-requests", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/join-requests/nope/accept", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/join-requests/organization/nope", "").Code)

	anon := newWorkflowFixture(false)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/join-requests", submitBody(uuid.New())).Code)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/join-requests/"+uuid.NewString()+"/accept", "").Code)
}
