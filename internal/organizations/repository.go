package organizations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytnews/backend/internal/models"
)

const orgColumns = `id, name, slug, description, logo, website, email, is_active, created_at, updated_at`

// Repository handles organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanOrg(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.Logo, &o.Website, &o.Email, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return scanOrg(r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id))
}

// GetBySlug returns an organization by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return scanOrg(r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE slug = $1`, slug))
}

// List returns active organizations.
func (r *Repository) List(ctx context.Context, skip, limit int) ([]models.Organization, error) {
	const q = `SELECT ` + orgColumns + ` FROM organizations WHERE is_active ORDER BY created_at OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, q, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.Logo, &o.Website, &o.Email, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// CreateParams holds the fields for a new organization.
type CreateParams struct {
	Name        string
	Slug        string
	Description string
	Logo        string
	Website     string
	Email       string
}

// Create inserts a new organization.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*models.Organization, error) {
	const q = `INSERT INTO organizations (name, slug, description, logo, website, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + orgColumns
	return scanOrg(r.pool.QueryRow(ctx, q, p.Name, p.Slug, p.Description, p.Logo, p.Website, p.Email))
}

// UpdateParams holds the optional fields of a partial organization update.
type UpdateParams struct {
	Name        *string
	Slug        *string
	Description *string
	Logo        *string
	Website     *string
	Email       *string
	IsActive    *bool
}

// Update applies a partial update and returns the updated organization.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Organization, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Slug != nil {
		add("slug", *p.Slug)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Logo != nil {
		add("logo", *p.Logo)
	}
	if p.Website != nil {
		add("website", *p.Website)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	q := fmt.Sprintf(`UPDATE organizations SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), orgColumns)
	return scanOrg(r.pool.QueryRow(ctx, q, args...))
}

// Delete removes an organization. Returns the number of rows deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
