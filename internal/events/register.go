package events

import (
	"errors"
	"time"

	"github.com/ytnews/backend/internal/models"
)

// Registration gate errors. All of them map to a 400 response.
var (
	ErrNotOpen        = errors.New("event is not open for registration")
	ErrDeadlinePassed = errors.New("registration deadline has passed")
	ErrFull           = errors.New("event is full")
	ErrGuestDetails   = errors.New("guest name and email are required")
)

// Eligible checks whether an event accepts a new registration right now,
// given the current confirmed count. Only published events accept
// registrations; a nil max_participants means unlimited capacity. The count
// is a snapshot, so two concurrent registrations can both pass the capacity
// check.
func Eligible(e *models.Event, confirmed int, now time.Time) error {
	if e.Status != models.EventPublished {
		return ErrNotOpen
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return ErrDeadlinePassed
	}
	if e.MaxParticipants != nil && confirmed >= *e.MaxParticipants {
		return ErrFull
	}
	return nil
}

// ValidateGuest checks the identity fields of an anonymous registration.
// Authenticated registrations carry the user's identity instead, so guest
// fields are not required.
func ValidateGuest(authenticated bool, guestName, guestEmail string) error {
	if authenticated {
		return nil
	}
	if guestName == "" || guestEmail == "" {
		return ErrGuestDetails
	}
	return nil
}
