package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mgpai22/subplay/internal/logging"
	"github.com/mgpai22/subplay/internal/metrics"
	"github.com/mgpai22/subplay/internal/subtitle"
)

// Status is one position report from the video host.
type Status struct {
	Position time.Duration
	Duration time.Duration
	Playing  bool
}

// Frame is what the overlay should show at a position. No segments means
// render nothing.
type Frame struct {
	Position time.Duration
	Duration time.Duration
	Event    *subtitle.DialogueEvent
	Segments []subtitle.Segment
	// Changed is set when the active subtitle differs from the previous frame.
	Changed bool
}

// Renderer paints overlay frames.
type Renderer interface {
	Render(frame Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(frame Frame) error

func (f RendererFunc) Render(frame Frame) error {
	return f(frame)
}

// Session turns host position updates into overlay frames for one loaded
// document. It runs on a single goroutine.
type Session struct {
	ID string

	resolver *subtitle.Resolver
	logger   *logging.Logger
	metrics  *metrics.Metrics

	started   bool
	lastFound bool
	lastEvent subtitle.DialogueEvent
}

type Option func(*Session)

func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

func NewSession(events []subtitle.DialogueEvent, opts ...Option) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		resolver: subtitle.NewResolver(events),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.ID)
	return s
}

// Update resolves the frame for a status report.
func (s *Session) Update(status Status) Frame {
	s.metrics.PlaybackUpdate()

	event, found := s.resolver.At(status.Position)
	changed := !s.started || found != s.lastFound ||
		(found && event != s.lastEvent)

	s.started = true
	s.lastFound = found
	s.lastEvent = event

	frame := Frame{
		Position: status.Position,
		Duration: status.Duration,
		Changed:  changed,
	}
	if found {
		frame.Event = &event
		frame.Segments = subtitle.Decode(event.Text)
	}

	if changed {
		s.logger.Debugw("Active subtitle changed",
			"position", status.Position.String(),
			"found", found,
			"text", event.Text,
		)
	}

	return frame
}

// Run consumes status updates until the channel closes or ctx is done and
// renders every frame whose subtitle changed.
func (s *Session) Run(ctx context.Context, updates <-chan Status, renderer Renderer) error {
	s.logger.Debugw("Playback session started",
		"events", len(s.resolver.Events()),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case status, ok := <-updates:
			if !ok {
				s.logger.Debugw("Playback session finished")
				return nil
			}

			frame := s.Update(status)
			if !frame.Changed {
				continue
			}
			if err := renderer.Render(frame); err != nil {
				return fmt.Errorf("render frame at %s: %w", status.Position, err)
			}
			s.metrics.FrameRendered(frame.Changed)
		}
	}
}
