package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishedAtStampedOnFirstPublish(t *testing.T) {
	now := time.Now()
	got := PublishedAtOnTransition(nil, "published", now)
	require.NotNil(t, got)
	assert.Equal(t, now, *got)
}

func TestPublishedAtNotStampedForOtherStatuses(t *testing.T) {
	now := time.Now()
	for _, status := range []string{"draft", "archived", "cancelled", "completed"} {
		assert.Nil(t, PublishedAtOnTransition(nil, status, now), status)
	}
}

func TestPublishedAtFirstPublishWins(t *testing.T) {
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stamp := &first

	// draft -> published -> draft -> published keeps the original stamp
	later := first.Add(48 * time.Hour)
	stamp = PublishedAtOnTransition(stamp, "draft", later)
	require.NotNil(t, stamp)
	assert.Equal(t, first, *stamp)

	stamp = PublishedAtOnTransition(stamp, "published", later)
	require.NotNil(t, stamp)
	assert.Equal(t, first, *stamp)
}
