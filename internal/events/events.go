// Package events publishes scheduling lifecycle events to the bus. Consumers
// (the evergreen distribution workflow, activity feeds) live in other
// services.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics the scheduler publishes to.
const (
	TopicPosts     = "socialspark.posts"
	TopicEvergreen = "socialspark.evergreen"
)

// Event types.
const (
	TypePostRescheduled       = "post.rescheduled"
	TypePostDeleted           = "post.deleted"
	TypeDistributionRequested = "evergreen.distribution-requested"
)

// Event is the generic bus envelope.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	BrandID   string         `json:"brand_id,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// newEvent stamps an envelope with id, source and time.
func newEvent(source, eventType, brandID string, data map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		BrandID:   brandID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// PostRescheduledEvent builds the envelope for a completed reschedule.
func PostRescheduledEvent(source, brandID, postID string, newDate time.Time) Event {
	return newEvent(source, TypePostRescheduled, brandID, map[string]any{
		"post_id":  postID,
		"new_date": newDate.Format(time.RFC3339Nano),
	})
}

// PostDeletedEvent builds the envelope for an explicit post deletion.
func PostDeletedEvent(source, brandID, postID string) Event {
	return newEvent(source, TypePostDeleted, brandID, map[string]any{
		"post_id": postID,
	})
}

// DistributionRequestedEvent builds the hand-off envelope that seeds the
// evergreen distribution workflow with a destination date. The consuming
// workflow creates one post per targeted retail partner.
func DistributionRequestedEvent(source, brandID string, date time.Time) Event {
	return newEvent(source, TypeDistributionRequested, brandID, map[string]any{
		"destination_date": date.Format(time.RFC3339),
	})
}
