package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytnews/backend/internal/models"
)

const categoryColumns = `id, name, slug, description, created_at`

// Repository handles category persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a categories repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var cat models.Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetByID returns a category by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

// GetBySlug returns a category by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
}

// List returns all categories ordered by name.
func (r *Repository) List(ctx context.Context, skip, limit int) ([]models.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories ORDER BY name OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, q, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, cat)
	}
	return list, rows.Err()
}

// Create inserts a category.
func (r *Repository) Create(ctx context.Context, name, slug, description string) (*models.Category, error) {
	const q = `INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3) RETURNING ` + categoryColumns
	return scanCategory(r.pool.QueryRow(ctx, q, name, slug, description))
}

// UpdateParams are the optional category fields; nil means unchanged.
type UpdateParams struct {
	Name        *string
	Slug        *string
	Description *string
}

// Update applies the non-nil fields and returns the updated category.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Category, error) {
	var sets []string
	var args []any
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
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), categoryColumns)
	return scanCategory(r.pool.QueryRow(ctx, q, args...))
}

// Delete removes a category and reports how many rows were deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
