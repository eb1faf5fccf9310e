package events

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

// eventColumns includes the confirmed registration count as a correlated
// subquery so every read carries it.
const eventColumns = `e.id, e.title, e.slug, e.description, e.excerpt, e.cover_image, e.location,
	e.event_date, e.registration_deadline, e.max_participants, e.status, e.author_id,
	e.organization_id, e.published_at, e.created_at, e.updated_at,
	(SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id AND r.status = 'confirmed') AS registrations_count`

const registrationColumns = `id, event_id, user_id, guest_name, guest_email, guest_phone, notes, status, registered_at`

// Repository handles event and registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Excerpt, &e.CoverImage, &e.Location,
		&e.EventDate, &e.RegistrationDeadline, &e.MaxParticipants, &e.Status, &e.AuthorID,
		&e.OrganizationID, &e.PublishedAt, &e.CreatedAt, &e.UpdatedAt, &e.RegistrationsCount)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id))
}

// GetBySlug returns an event by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.slug = $1`, slug))
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Excerpt, &e.CoverImage, &e.Location,
			&e.EventDate, &e.RegistrationDeadline, &e.MaxParticipants, &e.Status, &e.AuthorID,
			&e.OrganizationID, &e.PublishedAt, &e.CreatedAt, &e.UpdatedAt, &e.RegistrationsCount); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// List returns events filtered by status, newest event first. An empty
// status means all statuses.
func (r *Repository) List(ctx context.Context, status string, skip, limit int) ([]models.Event, error) {
	var conds []string
	var args []any
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("e.status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, skip, limit)
	q := fmt.Sprintf(`SELECT %s FROM events e %s ORDER BY e.event_date DESC OFFSET $%d LIMIT $%d`,
		eventColumns, where, len(args)-1, len(args))
	return r.list(ctx, q, args...)
}

// ListUpcoming returns published events with a future date, soonest first.
func (r *Repository) ListUpcoming(ctx context.Context, skip, limit int) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events e
		WHERE e.status = 'published' AND e.event_date > NOW()
		ORDER BY e.event_date ASC OFFSET $1 LIMIT $2`
	return r.list(ctx, q, skip, limit)
}

// CreateParams are the fields for a new event.
type CreateParams struct {
	Title                string
	Slug                 string
	Description          string
	Excerpt              string
	CoverImage           string
	Location             string
	EventDate            time.Time
	RegistrationDeadline *time.Time
	MaxParticipants      *int
	Status               models.EventStatus
	AuthorID             uuid.UUID
	OrganizationID       *uuid.UUID
	PublishedAt          *time.Time
}

// Create inserts an event.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*models.Event, error) {
	const q = `INSERT INTO events (title, slug, description, excerpt, cover_image, location, event_date,
			registration_deadline, max_participants, status, author_id, organization_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, q,
		p.Title, p.Slug, p.Description, p.Excerpt, p.CoverImage, p.Location, p.EventDate,
		p.RegistrationDeadline, p.MaxParticipants, p.Status, p.AuthorID, p.OrganizationID, p.PublishedAt).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdateParams are the optional event fields; nil means unchanged.
// PublishedAt is set only when the caller stamps a first publish.
type UpdateParams struct {
	Title                *string
	Slug                 *string
	Description          *string
	Excerpt              *string
	CoverImage           *string
	Location             *string
	EventDate            *time.Time
	RegistrationDeadline *time.Time
	MaxParticipants      *int
	Status               *models.EventStatus
	OrganizationID       *uuid.UUID
	PublishedAt          *time.Time
}

// Update applies the non-nil fields and returns the updated event.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Event, error) {
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
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Excerpt != nil {
		add("excerpt", *p.Excerpt)
	}
	if p.CoverImage != nil {
		add("cover_image", *p.CoverImage)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.EventDate != nil {
		add("event_date", *p.EventDate)
	}
	if p.RegistrationDeadline != nil {
		add("registration_deadline", *p.RegistrationDeadline)
	}
	if p.MaxParticipants != nil {
		add("max_participants", *p.MaxParticipants)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.OrganizationID != nil {
		add("organization_id", *p.OrganizationID)
	}
	if p.PublishedAt != nil {
		add("published_at", *p.PublishedAt)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event; registrations go with it via cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRegistration(row pgx.Row) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.GuestName, &reg.GuestEmail,
		&reg.GuestPhone, &reg.Notes, &reg.Status, &reg.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CountConfirmed returns the number of confirmed registrations for an event.
// Capacity is checked against this count, read-then-write.
func (r *Repository) CountConfirmed(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = 'confirmed'`, eventID).Scan(&n)
	return n, err
}

// GetRegistrationByUser returns a user's registration for an event.
func (r *Repository) GetRegistrationByUser(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRegistration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND user_id = $2`
	return scanRegistration(r.pool.QueryRow(ctx, q, eventID, userID))
}

// GetRegistrationByGuestEmail returns a guest registration for an event.
func (r *Repository) GetRegistrationByGuestEmail(ctx context.Context, eventID uuid.UUID, email string) (*models.EventRegistration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND guest_email = $2`
	return scanRegistration(r.pool.QueryRow(ctx, q, eventID, email))
}

// GetRegistration returns a registration by ID.
func (r *Repository) GetRegistration(ctx context.Context, id uuid.UUID) (*models.EventRegistration, error) {
	return scanRegistration(r.pool.QueryRow(ctx, `SELECT `+registrationColumns+` FROM event_registrations WHERE id = $1`, id))
}

// CreateRegistration inserts a confirmed registration.
func (r *Repository) CreateRegistration(ctx context.Context, eventID uuid.UUID, userID *uuid.UUID, guestName, guestEmail, guestPhone, notes string) (*models.EventRegistration, error) {
	const q = `INSERT INTO event_registrations (event_id, user_id, guest_name, guest_email, guest_phone, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'confirmed')
		RETURNING ` + registrationColumns
	return scanRegistration(r.pool.QueryRow(ctx, q, eventID, userID, guestName, guestEmail, guestPhone, notes))
}

// ListRegistrations returns all registrations for an event, oldest first.
func (r *Repository) ListRegistrations(ctx context.Context, eventID uuid.UUID) ([]models.EventRegistration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 ORDER BY registered_at`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventRegistration
	for rows.Next() {
		var reg models.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.GuestName, &reg.GuestEmail,
			&reg.GuestPhone, &reg.Notes, &reg.Status, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

// ListRegistrationsByUser returns a user's registrations, newest first.
func (r *Repository) ListRegistrationsByUser(ctx context.Context, userID uuid.UUID) ([]models.EventRegistration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM event_registrations WHERE user_id = $1 ORDER BY registered_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventRegistration
	for rows.Next() {
		var reg models.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.GuestName, &reg.GuestEmail,
			&reg.GuestPhone, &reg.Notes, &reg.Status, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

// DeleteRegistration removes a registration.
func (r *Repository) DeleteRegistration(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_registrations WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
