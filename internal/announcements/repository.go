package announcements

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

const announcementColumns = `id, title, slug, content, excerpt, cover_image, status, author_id, organization_id, employee_id, published_at, created_at, updated_at`

// Repository handles announcement persistence, including the category
// many-to-many set.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an announcements repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.CoverImage, &a.Status,
		&a.AuthorID, &a.OrganizationID, &a.EmployeeID, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Categories = []models.Category{}
	return &a, nil
}

// attachCategories fills the Categories slice of each announcement with one
// batched query.
func (r *Repository) attachCategories(ctx context.Context, list []*models.Announcement) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(list))
	byID := make(map[uuid.UUID]*models.Announcement, len(list))
	for i, a := range list {
		ids[i] = a.ID
		byID[a.ID] = a
	}
	const q = `SELECT ac.announcement_id, c.id, c.name, c.slug, c.description, c.created_at
		FROM announcement_categories ac
		JOIN categories c ON c.id = ac.category_id
		WHERE ac.announcement_id = ANY($1)
		ORDER BY c.name`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var aID uuid.UUID
		var cat models.Category
		if err := rows.Scan(&aID, &cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.CreatedAt); err != nil {
			return err
		}
		byID[aID].Categories = append(byID[aID].Categories, cat)
	}
	return rows.Err()
}

func (r *Repository) getOne(ctx context.Context, q string, arg any) (*models.Announcement, error) {
	a, err := scanAnnouncement(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, []*models.Announcement{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID returns an announcement with its categories.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	return r.getOne(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)
}

// GetBySlug returns an announcement with its categories.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Announcement, error) {
	return r.getOne(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE slug = $1`, slug)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]*models.Announcement, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.CoverImage, &a.Status,
			&a.AuthorID, &a.OrganizationID, &a.EmployeeID, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Categories = []models.Category{}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListPublished returns published announcements, newest published first.
func (r *Repository) ListPublished(ctx context.Context, skip, limit int) ([]*models.Announcement, error) {
	const q = `SELECT ` + announcementColumns + ` FROM announcements
		WHERE status = 'published' ORDER BY published_at DESC OFFSET $1 LIMIT $2`
	return r.list(ctx, q, skip, limit)
}

// ListAll returns announcements of any status, optionally filtered by
// status and category, newest first.
func (r *Repository) ListAll(ctx context.Context, status string, categoryID *uuid.UUID, skip, limit int) ([]*models.Announcement, error) {
	var conds []string
	var args []any
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if categoryID != nil {
		args = append(args, *categoryID)
		conds = append(conds, fmt.Sprintf(
			"id IN (SELECT announcement_id FROM announcement_categories WHERE category_id = $%d)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, skip, limit)
	q := fmt.Sprintf(`SELECT %s FROM announcements %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d`,
		announcementColumns, where, len(args)-1, len(args))
	return r.list(ctx, q, args...)
}

// CreateParams are the fields for a new announcement.
type CreateParams struct {
	Title          string
	Slug           string
	Content        string
	Excerpt        string
	CoverImage     string
	Status         models.AnnouncementStatus
	AuthorID       uuid.UUID
	OrganizationID *uuid.UUID
	EmployeeID     *uuid.UUID
	PublishedAt    *time.Time
	CategoryIDs    []uuid.UUID
}

// Create inserts an announcement and attaches its categories in one
// transaction.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*models.Announcement, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO announcements (title, slug, content, excerpt, cover_image, status, author_id, organization_id, employee_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + announcementColumns
	a, err := scanAnnouncement(tx.QueryRow(ctx, q,
		p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage, p.Status,
		p.AuthorID, p.OrganizationID, p.EmployeeID, p.PublishedAt))
	if err != nil {
		return nil, err
	}
	if err := replaceCategories(ctx, tx, a.ID, p.CategoryIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, a.ID)
}

// UpdateParams are the optional announcement fields; nil means unchanged.
// PublishedAt is set only when the caller stamps a first publish.
// CategoryIDs, when non-nil, replaces the whole category set.
type UpdateParams struct {
	Title          *string
	Slug           *string
	Content        *string
	Excerpt        *string
	CoverImage     *string
	Status         *models.AnnouncementStatus
	OrganizationID *uuid.UUID
	EmployeeID     *uuid.UUID
	PublishedAt    *time.Time
	CategoryIDs    []uuid.UUID
}

// Update applies the non-nil fields and the category set and returns the
// updated announcement.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Announcement, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Slug != nil {
		add("slug", *p.Slug)
	}
	if p.Content != nil {
		add("content", *p.Content)
	}
	if p.Excerpt != nil {
		add("excerpt", *p.Excerpt)
	}
	if p.CoverImage != nil {
		add("cover_image", *p.CoverImage)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.OrganizationID != nil {
		add("organization_id", *p.OrganizationID)
	}
	if p.EmployeeID != nil {
		add("employee_id", *p.EmployeeID)
	}
	if p.PublishedAt != nil {
		add("published_at", *p.PublishedAt)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE announcements SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), announcementColumns)
	a, err := scanAnnouncement(tx.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, err
	}
	if p.CategoryIDs != nil {
		if err := replaceCategories(ctx, tx, id, p.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, a.ID)
}

func replaceCategories(ctx context.Context, tx pgx.Tx, announcementID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM announcement_categories WHERE announcement_id = $1`, announcementID); err != nil {
		return err
	}
	for _, catID := range categoryIDs {
		const q = `INSERT INTO announcement_categories (announcement_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(ctx, q, announcementID, catID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an announcement and reports how many rows were deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
