// Package dragdrop models a single calendar drag gesture: the payload being
// dragged and the state machine that resolves a drop into an outcome.
package dragdrop

// EvergreenPayloadID is the sentinel identifier the drag surface uses for the
// evergreen distribution marker. Every other identifier names a concrete post.
const EvergreenPayloadID = "evergreen"

// Payload is what a gesture carries: either a concrete post or the evergreen
// marker. The union is sealed so classification happens exactly once, at the
// boundary where the wire identifier enters the engine.
type Payload interface {
	payload()
}

// RegularPost identifies a scheduled or draft post being moved.
type RegularPost struct {
	PostID string
}

// EvergreenMarker is the distribution marker; it never carries a post id.
type EvergreenMarker struct{}

func (RegularPost) payload()     {}
func (EvergreenMarker) payload() {}

// ClassifyPayload turns the drag surface's payload identifier into a typed
// payload. An empty identifier is not a valid payload.
func ClassifyPayload(id string) (Payload, bool) {
	switch id {
	case "":
		return nil, false
	case EvergreenPayloadID:
		return EvergreenMarker{}, true
	default:
		return RegularPost{PostID: id}, true
	}
}
