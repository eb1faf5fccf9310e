package models

import (
	"time"

	"github.com/google/uuid"
)

// FounderPosition is the position given to the creator of an organization.
const FounderPosition = "Founder & CEO"

// Organization represents a community organization.
type Organization struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Website     string    `json:"website,omitempty"`
	Email       string    `json:"email,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Employee is a user's membership record within an organization, carrying a
// position title and posting permission.
type Employee struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Position       string    `json:"position"`
	IsActive       bool      `json:"is_active"`
	CanPost        bool      `json:"can_post"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
