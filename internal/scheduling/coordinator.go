package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/calendar"
	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// ErrPastDate is returned when a reschedule targets a day strictly before
// today. Past targets are rejected on both the drag path and the day-click
// path; no remote call is made.
var ErrPastDate = errors.New("target day is in the past")

// Coordinator turns a resolved drop into a date mutation on the store. It
// never mutates cached state itself: on success it invalidates the brand's
// cache entry and lets the calendar re-derive day contents from a fresh read.
type Coordinator struct {
	repo     PostRepository
	cache    CacheInvalidator
	notifier Notifier
	logger   logging.Logger

	// now is swapped in tests to pin the past-date check.
	now func() time.Time
}

// NewCoordinator wires a coordinator. cache and notifier may be nil when the
// caller has no cache layer or no operator surface.
func NewCoordinator(repo PostRepository, cache CacheInvalidator, notifier Notifier, logger logging.Logger) *Coordinator {
	return &Coordinator{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Reschedule moves a post to day, preserving its original time-of-day. Posts
// with no scheduled date yet default to midnight UTC. The mutation is issued
// once, never retried, and nothing local is touched on failure.
func (c *Coordinator) Reschedule(ctx context.Context, postID string, day calendar.Day) (*models.ContentPost, error) {
	if beforeToday(day, c.now()) {
		c.notifyWarn("Cannot schedule content in the past")
		return nil, ErrPastDate
	}

	post, err := c.repo.GetByID(ctx, postID)
	if err != nil {
		c.notifyError(fmt.Sprintf("Could not load post for rescheduling: %v", err))
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}

	newDate := composeTimestamp(day, post.ScheduledDate)

	updated, err := c.repo.Reschedule(ctx, postID, newDate)
	if err != nil {
		c.notifyError(fmt.Sprintf("Rescheduling failed: %v", err))
		return nil, fmt.Errorf("reschedule post %s: %w", postID, err)
	}

	if c.cache != nil {
		c.cache.Invalidate(ctx, updated.BrandID)
	}

	c.logger.WithFields(logging.Fields{
		"post_id":  postID,
		"brand_id": updated.BrandID,
		"new_date": newDate.Format(time.RFC3339),
	}).Info("Post rescheduled")

	return updated, nil
}

// composeTimestamp combines the destination day with the post's original
// time-of-day. Drag changes the date only, never the time.
func composeTimestamp(day calendar.Day, current *time.Time) time.Time {
	hour, min, sec, nsec := 0, 0, 0, 0
	loc := time.UTC
	if current != nil {
		hour, min, sec = current.Clock()
		nsec = current.Nanosecond()
		loc = current.Location()
	}
	return time.Date(day.Year, time.Month(day.Month+1), day.Day, hour, min, sec, nsec, loc)
}

// beforeToday reports whether day falls strictly before now's calendar date.
func beforeToday(day calendar.Day, now time.Time) bool {
	target := day.Date(time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return target.Before(today)
}

func (c *Coordinator) notifyWarn(message string) {
	if c.notifier != nil {
		c.notifier.Warn(message)
	}
}

func (c *Coordinator) notifyError(message string) {
	if c.notifier != nil {
		c.notifier.Error(message)
	}
}
