package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ytnews/backend/internal/models"
)

func publishedEvent() *models.Event {
	return &models.Event{
		Status:    models.EventPublished,
		EventDate: time.Now().Add(48 * time.Hour),
	}
}

func TestEligibleRequiresPublished(t *testing.T) {
	now := time.Now()
	for _, status := range []models.EventStatus{models.EventDraft, models.EventCancelled, models.EventCompleted} {
		e := publishedEvent()
		e.Status = status
		assert.ErrorIs(t, Eligible(e, 0, now), ErrNotOpen)
	}
	assert.NoError(t, Eligible(publishedEvent(), 0, now))
}

func TestEligibleDeadline(t *testing.T) {
	now := time.Now()
	e := publishedEvent()
	past := now.Add(-time.Hour)
	e.RegistrationDeadline = &past
	assert.ErrorIs(t, Eligible(e, 0, now), ErrDeadlinePassed)

	future := now.Add(time.Hour)
	e.RegistrationDeadline = &future
	assert.NoError(t, Eligible(e, 0, now))
}

func TestEligibleCapacity(t *testing.T) {
	now := time.Now()
	e := publishedEvent()
	max := 2
	e.MaxParticipants = &max

	assert.NoError(t, Eligible(e, 0, now))
	assert.NoError(t, Eligible(e, 1, now))
	assert.ErrorIs(t, Eligible(e, 2, now), ErrFull)
	assert.ErrorIs(t, Eligible(e, 3, now), ErrFull)

	// nil max means unlimited
	e.MaxParticipants = nil
	assert.NoError(t, Eligible(e, 100000, now))
}

func TestValidateGuest(t *testing.T) {
	assert.ErrorIs(t, ValidateGuest(false, "", ""), ErrGuestDetails)
	assert.ErrorIs(t, ValidateGuest(false, "Jo", ""), ErrGuestDetails)
	assert.ErrorIs(t, ValidateGuest(false, "", "jo@x.com"), ErrGuestDetails)
	assert.NoError(t, ValidateGuest(false, "Jo", "jo@x.com"))

	// authenticated callers never need guest fields
	assert.NoError(t, ValidateGuest(true, "", ""))
}
