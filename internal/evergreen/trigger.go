// Package evergreen opens the distribution workflow when the evergreen
// marker is dropped on a day. It never touches the reschedule path: the
// consuming workflow creates new posts, this side only hands off the date.
package evergreen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/calendar"
	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/scheduling"
)

// ErrPastDate is returned for destination days strictly before today.
var ErrPastDate = errors.New("distribution day is in the past")

// DistributionPublisher hands the destination date to the external workflow.
type DistributionPublisher interface {
	DistributionRequested(ctx context.Context, brandID string, date time.Time) error
}

// Trigger validates an evergreen drop and opens the distribution workflow.
type Trigger struct {
	publisher DistributionPublisher
	notifier  scheduling.Notifier
	logger    logging.Logger

	now func() time.Time
}

// NewTrigger wires a trigger. notifier may be nil.
func NewTrigger(publisher DistributionPublisher, notifier scheduling.Notifier, logger logging.Logger) *Trigger {
	return &Trigger{
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Distribute requests distribution of evergreen content for brandID seeded
// with day. Past days are rejected before anything leaves the process.
func (t *Trigger) Distribute(ctx context.Context, brandID string, day calendar.Day) error {
	date := day.Date(time.UTC)
	now := t.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		if t.notifier != nil {
			t.notifier.Warn("Cannot distribute evergreen content to a past date")
		}
		return ErrPastDate
	}

	if err := t.publisher.DistributionRequested(ctx, brandID, date); err != nil {
		if t.notifier != nil {
			t.notifier.Error(fmt.Sprintf("Could not start evergreen distribution: %v", err))
		}
		return fmt.Errorf("request distribution for brand %s: %w", brandID, err)
	}

	t.logger.WithFields(logging.Fields{
		"brand_id": brandID,
		"date":     date.Format(time.RFC3339),
	}).Info("Evergreen distribution requested")

	return nil
}
