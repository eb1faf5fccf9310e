package models

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequestStatus is the lifecycle state of a join request. Pending is the
// only non-terminal state.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestAccepted JoinRequestStatus = "accepted"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// JoinRequest is a user's ask to become an employee of an organization.
type JoinRequest struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	OrganizationID uuid.UUID         `json:"organization_id"`
	Position       string            `json:"position"`
	Message        string            `json:"message,omitempty"`
	Status         JoinRequestStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
