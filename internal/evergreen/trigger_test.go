package evergreen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/calendar"
	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
)

type fakePublisher struct {
	calls []time.Time
	err   error
}

func (p *fakePublisher) DistributionRequested(_ context.Context, _ string, date time.Time) error {
	p.calls = append(p.calls, date)
	return p.err
}

type fakeNotifier struct {
	warnings []string
	errors   []string
}

func (n *fakeNotifier) Warn(msg string)  { n.warnings = append(n.warnings, msg) }
func (n *fakeNotifier) Error(msg string) { n.errors = append(n.errors, msg) }

func newTestTrigger(publisher *fakePublisher, now time.Time) (*Trigger, *fakeNotifier) {
	notifier := &fakeNotifier{}
	tr := NewTrigger(publisher, notifier, logging.NewLogger())
	tr.now = func() time.Time { return now }
	return tr, notifier
}

func TestDistributePublishesDestinationDate(t *testing.T) {
	publisher := &fakePublisher{}
	tr, _ := newTestTrigger(publisher, time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC))

	err := tr.Distribute(context.Background(), "brand-1", calendar.Day{Year: 2025, Month: 2, Day: 20})
	if err != nil {
		t.Fatal(err)
	}

	if len(publisher.calls) != 1 {
		t.Fatalf("expected one publish, got %d", len(publisher.calls))
	}
	want := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	if !publisher.calls[0].Equal(want) {
		t.Fatalf("expected %v, got %v", want, publisher.calls[0])
	}
}

func TestDistributeRejectsPastDay(t *testing.T) {
	publisher := &fakePublisher{}
	tr, notifier := newTestTrigger(publisher, time.Date(2025, time.March, 21, 9, 0, 0, 0, time.UTC))

	err := tr.Distribute(context.Background(), "brand-1", calendar.Day{Year: 2025, Month: 2, Day: 20})
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
	if len(publisher.calls) != 0 {
		t.Fatal("past day must not publish")
	}
	if len(notifier.warnings) != 1 {
		t.Fatalf("expected one warning, got %v", notifier.warnings)
	}
}

func TestDistributeTodayAllowed(t *testing.T) {
	publisher := &fakePublisher{}
	tr, _ := newTestTrigger(publisher, time.Date(2025, time.March, 20, 23, 59, 0, 0, time.UTC))

	if err := tr.Distribute(context.Background(), "brand-1", calendar.Day{Year: 2025, Month: 2, Day: 20}); err != nil {
		t.Fatalf("same-day distribution should be allowed, got %v", err)
	}
}

func TestDistributePublisherFailureNotifies(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("brokers unreachable")}
	tr, notifier := newTestTrigger(publisher, time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC))

	err := tr.Distribute(context.Background(), "brand-1", calendar.Day{Year: 2025, Month: 2, Day: 20})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected one error notification, got %v", notifier.errors)
	}
}
