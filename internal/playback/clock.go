package playback

import (
	"context"
	"time"
)

// Clock stands in for a video host: it reports a playback position every
// Tick, advancing by Tick*Speed, from Start until Duration.
type Clock struct {
	Start    time.Duration
	Duration time.Duration
	Tick     time.Duration
	Speed    float64
}

func (c Clock) step() time.Duration {
	speed := c.Speed
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(c.Tick) * speed)
}

// Run starts the clock. The returned channel closes after the final
// position (which is always Duration) or when ctx is cancelled.
func (c Clock) Run(ctx context.Context) <-chan Status {
	out := make(chan Status)

	go func() {
		defer close(out)

		if c.Tick <= 0 {
			return
		}

		ticker := time.NewTicker(c.Tick)
		defer ticker.Stop()

		pos := c.Start
		for {
			last := pos >= c.Duration
			if last {
				pos = c.Duration
			}

			select {
			case <-ctx.Done():
				return
			case out <- Status{Position: pos, Duration: c.Duration, Playing: !last}:
			}
			if last {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			pos += c.step()
		}
	}()

	return out
}

// Positions reports an explicit list of positions with no delay, for
// scripted seeks and tests.
func Positions(ctx context.Context, duration time.Duration, positions ...time.Duration) <-chan Status {
	out := make(chan Status)
	go func() {
		defer close(out)
		for _, pos := range positions {
			select {
			case <-ctx.Done():
				return
			case out <- Status{Position: pos, Duration: duration, Playing: true}:
			}
		}
	}()
	return out
}
