package dragdrop

import (
	"errors"

	"github.com/mcawcutt/socialspark-scheduler/internal/calendar"
)

// State is the session's position in the gesture lifecycle.
type State int

const (
	StateIdle State = iota
	StateDragging
)

// ErrGestureActive is returned when a drag starts while another is live. The
// drag surface is expected to serialize gestures; this guards ports to
// surfaces that do not.
var ErrGestureActive = errors.New("drag gesture already active")

// Outcome is the terminal result of one gesture. The session returns to Idle
// the moment an outcome is produced.
type Outcome interface {
	outcome()
}

// Cancelled means the gesture resolved without a valid destination: released
// outside any target, or onto a target that failed to decode.
type Cancelled struct{}

// NoOp means the item was dropped back onto its source day.
type NoOp struct{}

// Reschedule means a regular post should move to Day.
type Reschedule struct {
	PostID string
	Day    calendar.Day
}

// Distribute means the evergreen marker landed on Day and the distribution
// workflow should open.
type Distribute struct {
	Day calendar.Day
}

func (Cancelled) outcome()  {}
func (NoOp) outcome()       {}
func (Reschedule) outcome() {}
func (Distribute) outcome() {}

// Session tracks one drag gesture at a time. It is not safe for concurrent
// use: callers own serialization, one gesture per session.
type Session struct {
	state   State
	payload Payload
	source  calendar.Day
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// StartDrag begins a gesture with the given payload picked up from source.
func (s *Session) StartDrag(p Payload, source calendar.Day) error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	if p == nil {
		return errors.New("drag payload is required")
	}
	s.state = StateDragging
	s.payload = p
	s.source = source
	return nil
}

// Drop resolves the gesture against the encoded target identifier (nil when
// the item was released outside every target) and returns the session to
// Idle. Malformed targets fail closed to Cancelled; no outcome ever escapes
// the machine in a dirty state.
func (s *Session) Drop(target *string) Outcome {
	defer s.reset()

	if s.state != StateDragging {
		return Cancelled{}
	}
	if target == nil {
		return Cancelled{}
	}

	day, ok := calendar.DecodeDropTarget(*target)
	if !ok {
		return Cancelled{}
	}
	if day == s.source {
		return NoOp{}
	}

	switch p := s.payload.(type) {
	case RegularPost:
		return Reschedule{PostID: p.PostID, Day: day}
	case EvergreenMarker:
		return Distribute{Day: day}
	}
	return Cancelled{}
}

func (s *Session) reset() {
	s.state = StateIdle
	s.payload = nil
	s.source = calendar.Day{}
}
