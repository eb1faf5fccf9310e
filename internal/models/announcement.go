package models

import (
	"time"

	"github.com/google/uuid"
)

// AnnouncementStatus is the publication state of an announcement.
type AnnouncementStatus string

const (
	AnnouncementDraft     AnnouncementStatus = "draft"
	AnnouncementPublished AnnouncementStatus = "published"
	AnnouncementArchived  AnnouncementStatus = "archived"
)

// ValidAnnouncementStatus reports whether s names a known status.
func ValidAnnouncementStatus(s string) bool {
	switch AnnouncementStatus(s) {
	case AnnouncementDraft, AnnouncementPublished, AnnouncementArchived:
		return true
	}
	return false
}

// Announcement is a news post, optionally published on behalf of an
// organization by one of its employees.
type Announcement struct {
	ID             uuid.UUID          `json:"id"`
	Title          string             `json:"title"`
	Slug           string             `json:"slug"`
	Content        string             `json:"content"` // rich text JSON from the editor
	Excerpt        string             `json:"excerpt,omitempty"`
	CoverImage     string             `json:"cover_image,omitempty"`
	Status         AnnouncementStatus `json:"status"`
	AuthorID       uuid.UUID          `json:"author_id"`
	OrganizationID *uuid.UUID         `json:"organization_id,omitempty"`
	EmployeeID     *uuid.UUID         `json:"employee_id,omitempty"`
	PublishedAt    *time.Time         `json:"published_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Categories     []Category         `json:"categories"`
}
