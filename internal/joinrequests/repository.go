package joinrequests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytnews/backend/internal/models"
)

// ErrNotPending is returned when accepting or rejecting a request that has
// already been decided. Pending is the only non-terminal state.
var ErrNotPending = errors.New("join request is not pending")

const joinRequestColumns = `id, user_id, organization_id, position, message, status, created_at, updated_at`

// Repository handles join request persistence and the accept transaction.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a join requests repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanJoinRequest(row pgx.Row) (*models.JoinRequest, error) {
	var jr models.JoinRequest
	err := row.Scan(&jr.ID, &jr.UserID, &jr.OrganizationID, &jr.Position, &jr.Message, &jr.Status, &jr.CreatedAt, &jr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

// GetByID returns a join request by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	return scanJoinRequest(r.pool.QueryRow(ctx, `SELECT `+joinRequestColumns+` FROM join_requests WHERE id = $1`, id))
}

// GetPendingByUserAndOrg returns the user's pending request to an
// organization, if any. At most one pending request per pair is allowed;
// the check happens before insert, read-then-write.
func (r *Repository) GetPendingByUserAndOrg(ctx context.Context, userID, orgID uuid.UUID) (*models.JoinRequest, error) {
	const q = `SELECT ` + joinRequestColumns + ` FROM join_requests
		WHERE user_id = $1 AND organization_id = $2 AND status = 'pending'`
	return scanJoinRequest(r.pool.QueryRow(ctx, q, userID, orgID))
}

// ListPendingByOrganization returns pending requests for an organization.
func (r *Repository) ListPendingByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.JoinRequest, error) {
	const q = `SELECT ` + joinRequestColumns + ` FROM join_requests
		WHERE organization_id = $1 AND status = 'pending' ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.JoinRequest
	for rows.Next() {
		var jr models.JoinRequest
		if err := rows.Scan(&jr.ID, &jr.UserID, &jr.OrganizationID, &jr.Position, &jr.Message, &jr.Status, &jr.CreatedAt, &jr.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, jr)
	}
	return list, rows.Err()
}

// Create inserts a pending join request.
func (r *Repository) Create(ctx context.Context, userID, orgID uuid.UUID, position, message string) (*models.JoinRequest, error) {
	const q = `INSERT INTO join_requests (user_id, organization_id, position, message)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + joinRequestColumns
	return scanJoinRequest(r.pool.QueryRow(ctx, q, userID, orgID, position, message))
}

// Accept moves a pending request to accepted and creates the employee record
// in the same transaction. Every accepted request implies exactly one
// employee row, created here at acceptance time. Returns ErrNotPending if
// the request has already been decided.
func (r *Repository) Accept(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const updateQ = `UPDATE join_requests SET status = 'accepted', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + joinRequestColumns
	jr, err := scanJoinRequest(tx.QueryRow(ctx, updateQ, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, err
	}

	const employeeQ = `INSERT INTO employees (user_id, organization_id, position, is_active, can_post)
		VALUES ($1, $2, $3, TRUE, TRUE)`
	if _, err := tx.Exec(ctx, employeeQ, jr.UserID, jr.OrganizationID, jr.Position); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return jr, nil
}

// Reject moves a pending request to rejected. No employee is created.
// Returns ErrNotPending if the request has already been decided.
func (r *Repository) Reject(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	const q = `UPDATE join_requests SET status = 'rejected', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + joinRequestColumns
	jr, err := scanJoinRequest(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, err
	}
	return jr, nil
}
