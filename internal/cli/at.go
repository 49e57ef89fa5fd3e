package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/subplay/internal/playback"
	"github.com/mgpai22/subplay/internal/subtitle"
	"github.com/spf13/cobra"
)

func newAtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "at [position]",
		Short: "Show the subtitle active at a playback position",
		Long: `Resolve the dialogue line active at a playback position and print it
with its inline styling.

The position is either seconds (e.g. 20.5) or H:MM:SS.cc (e.g. 0:00:20.50).
Nothing is printed after the clock when no line is active.

Examples:
  subplay at 3.2
  subplay at 0:01:04.50 -s movie.ass --ansi always`,
		Args: cobra.ExactArgs(1),
		RunE: runAt,
	}

	addSourceFlags(cmd.Flags())
	addTranslateFlags(cmd.Flags())
	addRenderFlags(cmd.Flags())

	return cmd
}

func runAt(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	events, err := loadEvents(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}

	session := playback.NewSession(events, playback.WithLogger(logger))
	frame := session.Update(playback.Status{Position: pos, Duration: lastEnd(events)})

	return newRenderer(cmd, cfg).Render(frame)
}

// parsePosition accepts seconds or an H:MM:SS.cc timestamp.
func parsePosition(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return subtitle.ParseTimestamp(s)
	}

	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid position %q: use seconds or H:MM:SS.cc", s)
	}
	return time.Duration(math.Round(seconds * 1000)) * time.Millisecond, nil
}

// latest end time of any event
func lastEnd(events []subtitle.DialogueEvent) time.Duration {
	var end time.Duration
	for _, e := range events {
		if e.End > end {
			end = e.End
		}
	}
	return end
}
