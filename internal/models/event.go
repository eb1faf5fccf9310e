package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the publication state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// ValidEventStatus reports whether s names a known status.
func ValidEventStatus(s string) bool {
	switch EventStatus(s) {
	case EventDraft, EventPublished, EventCancelled, EventCompleted:
		return true
	}
	return false
}

// Event is a community event users can register for.
type Event struct {
	ID                   uuid.UUID   `json:"id"`
	Title                string      `json:"title"`
	Slug                 string      `json:"slug"`
	Description          string      `json:"description"`
	Excerpt              string      `json:"excerpt,omitempty"`
	CoverImage           string      `json:"cover_image,omitempty"`
	Location             string      `json:"location,omitempty"`
	EventDate            time.Time   `json:"event_date"`
	RegistrationDeadline *time.Time  `json:"registration_deadline,omitempty"`
	MaxParticipants      *int        `json:"max_participants,omitempty"` // nil = unlimited
	Status               EventStatus `json:"status"`
	AuthorID             uuid.UUID   `json:"author_id"`
	OrganizationID       *uuid.UUID  `json:"organization_id,omitempty"`
	PublishedAt          *time.Time  `json:"published_at,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
	RegistrationsCount   int         `json:"registrations_count"` // confirmed registrations only
}

// RegistrationStatus is the state of an event registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// EventRegistration is one participant of an event. UserID is nil for guest
// registrations, which are identified by guest email instead.
type EventRegistration struct {
	ID           uuid.UUID          `json:"id"`
	EventID      uuid.UUID          `json:"event_id"`
	UserID       *uuid.UUID         `json:"user_id,omitempty"`
	GuestName    string             `json:"guest_name,omitempty"`
	GuestEmail   string             `json:"guest_email,omitempty"`
	GuestPhone   string             `json:"guest_phone,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	Status       RegistrationStatus `json:"status"`
	RegisteredAt time.Time          `json:"registered_at"`
}
