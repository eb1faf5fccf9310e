package models

import "time"

// PublishedAtOnTransition returns the published_at value after a save that
// sets the publication status to newStatus. The stamp is written exactly once,
// on the first transition into "published"; every later save, including
// repeated draft/published cycles, keeps the original stamp.
func PublishedAtOnTransition(current *time.Time, newStatus string, now time.Time) *time.Time {
	if newStatus == "published" && current == nil {
		return &now
	}
	return current
}
