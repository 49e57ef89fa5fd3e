package subtitle

import (
	"testing"
	"time"
)

func overlappingEvents() []DialogueEvent {
	return Parse(`[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,first
Dialogue: 0,0:00:03.00,0:00:06.00,Default,,0,0,0,,overlaps first
Dialogue: 0,0:00:03.00,0:00:05.00,Default,,0,0,0,,same start declared later
Dialogue: 0,0:00:10.00,0:00:10.00,Default,,0,0,0,,instant
`)
}

func TestActiveEvent(t *testing.T) {
	events := overlappingEvents()

	tests := []struct {
		name     string
		seconds  float64
		wantText string
		wantOK   bool
	}{
		{"before everything", 0.5, "", false},
		{"start bound inclusive", 1.0, "first", true},
		{"end bound inclusive", 4.0, "first", true},
		{"overlap picks earliest start", 3.5, "first", true},
		{"tie picks earliest declared", 4.5, "overlaps first", true},
		{"gap between events", 7.25, "", false},
		{"zero length event", 10.0, "instant", true},
		{"just after zero length event", 10.001, "", false},
		{"after everything", 3600, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ActiveEvent(events, tt.seconds)
			if ok != tt.wantOK {
				t.Fatalf("ActiveEvent(%v) ok = %v, want %v", tt.seconds, ok, tt.wantOK)
			}
			if got.Text != tt.wantText {
				t.Errorf("ActiveEvent(%v) = %q, want %q", tt.seconds, got.Text, tt.wantText)
			}
		})
	}
}

func TestActiveEventEmptyList(t *testing.T) {
	if _, ok := ActiveEvent(nil, 1); ok {
		t.Error("expected no event for empty list")
	}
}

func TestResolverIsIdempotent(t *testing.T) {
	r := NewResolver(overlappingEvents())

	first, ok := r.At(2 * time.Second)
	if !ok || first.Text != "first" {
		t.Fatalf("expected %q, got %q (%v)", "first", first.Text, ok)
	}

	again, ok := r.At(2 * time.Second)
	if !ok || again != first {
		t.Errorf("repeated position returned %+v, want %+v", again, first)
	}

	if _, ok := r.AtSeconds(8); ok {
		t.Error("expected no event at 8s")
	}

	// seeking backwards is just another query
	back, ok := r.AtSeconds(1)
	if !ok || back.Text != "first" {
		t.Errorf("expected %q after seeking back, got %q", "first", back.Text)
	}
}
