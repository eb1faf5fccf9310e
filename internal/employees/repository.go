package employees

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytnews/backend/internal/models"
)

const employeeColumns = `id, user_id, organization_id, position, is_active, can_post, created_at, updated_at`

// Repository handles employee persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an employees repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.UserID, &e.OrganizationID, &e.Position, &e.IsActive, &e.CanPost, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID returns an employee by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

// GetByUserAndOrg returns the employee record for a (user, organization)
// pair. The pair's uniqueness is enforced here in application logic, not by a
// store constraint.
func (r *Repository) GetByUserAndOrg(ctx context.Context, userID, orgID uuid.UUID) (*models.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1 AND organization_id = $2`
	return scanEmployee(r.pool.QueryRow(ctx, q, userID, orgID))
}

// GetActiveByUserAndOrg returns the active employee record for a
// (user, organization) pair. Membership gates care about current employees
// only.
func (r *Repository) GetActiveByUserAndOrg(ctx context.Context, userID, orgID uuid.UUID) (*models.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1 AND organization_id = $2 AND is_active`
	return scanEmployee(r.pool.QueryRow(ctx, q, userID, orgID))
}

// Create inserts a new employee record.
func (r *Repository) Create(ctx context.Context, userID, orgID uuid.UUID, position string, canPost bool) (*models.Employee, error) {
	const q = `INSERT INTO employees (user_id, organization_id, position, is_active, can_post)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING ` + employeeColumns
	return scanEmployee(r.pool.QueryRow(ctx, q, userID, orgID, position, canPost))
}

// Member is an active employee joined with user details for public
// organization pages.
type Member struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Position string    `json:"position"`
	CanPost  bool      `json:"can_post"`
	JoinedAt time.Time `json:"joined_at"`
}

// ListByOrganization returns active employees of an organization with user
// details, oldest first (the founder leads the list).
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	const q = `SELECT e.id, e.user_id, u.email, u.full_name, e.position, e.can_post, e.created_at
		FROM employees e
		INNER JOIN users u ON u.id = e.user_id
		WHERE e.organization_id = $1 AND e.is_active
		ORDER BY e.created_at ASC`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Email, &m.FullName, &m.Position, &m.CanPost, &m.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByUser returns the user's active employments.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1 AND is_active ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrganizationID, &e.Position, &e.IsActive, &e.CanPost, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// UpdateParams holds the optional fields of a partial employee update.
type UpdateParams struct {
	Position *string
	IsActive *bool
	CanPost  *bool
}

// Update applies a partial update and returns the updated employee.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Employee, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Position != nil {
		add("position", *p.Position)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	if p.CanPost != nil {
		add("can_post", *p.CanPost)
	}
	q := fmt.Sprintf(`UPDATE employees SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), employeeColumns)
	return scanEmployee(r.pool.QueryRow(ctx, q, args...))
}

// Delete removes an employee record. Returns the number of rows deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
