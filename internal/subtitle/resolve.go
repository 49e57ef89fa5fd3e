package subtitle

import (
	"math"
	"time"
)

// ActiveEvent returns the event showing at the given playback position in
// seconds. The first covering event in sorted order wins when several
// overlap.
func ActiveEvent(events []DialogueEvent, seconds float64) (DialogueEvent, bool) {
	return ActiveAt(events, secondsToDuration(seconds))
}

// ActiveAt is ActiveEvent for a duration position.
func ActiveAt(events []DialogueEvent, pos time.Duration) (DialogueEvent, bool) {
	for _, e := range events {
		if e.Contains(pos) {
			return e, true
		}
	}
	return DialogueEvent{}, false
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// Resolver wraps an event list and remembers the last lookup so repeated
// positions from a paused player skip the scan. Not safe for concurrent use.
type Resolver struct {
	events []DialogueEvent

	cached    bool
	lastPos   time.Duration
	lastEvent DialogueEvent
	lastFound bool
}

func NewResolver(events []DialogueEvent) *Resolver {
	return &Resolver{events: events}
}

func (r *Resolver) Events() []DialogueEvent {
	return r.events
}

// At resolves the active event for pos.
func (r *Resolver) At(pos time.Duration) (DialogueEvent, bool) {
	if r.cached && pos == r.lastPos {
		return r.lastEvent, r.lastFound
	}

	event, found := ActiveAt(r.events, pos)
	r.cached = true
	r.lastPos = pos
	r.lastEvent = event
	r.lastFound = found

	return event, found
}

// AtSeconds resolves the active event for a position in seconds.
func (r *Resolver) AtSeconds(seconds float64) (DialogueEvent, bool) {
	return r.At(secondsToDuration(seconds))
}
