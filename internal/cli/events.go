package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mgpai22/subplay/internal/subtitle"
	"github.com/spf13/cobra"
)

type segmentJSON struct {
	Text      string `json:"text"`
	Bold      *bool  `json:"bold,omitempty"`
	Italic    *bool  `json:"italic,omitempty"`
	Underline *bool  `json:"underline,omitempty"`
	StrikeOut *bool  `json:"strikeout,omitempty"`
	Color     string `json:"color,omitempty"`
}

type eventJSON struct {
	Start    string        `json:"start"`
	End      string        `json:"end"`
	StartMs  int64         `json:"start_ms"`
	EndMs    int64         `json:"end_ms"`
	Layer    int           `json:"layer"`
	Style    string        `json:"style"`
	Effect   string        `json:"effect"`
	Text     string        `json:"text"`
	Segments []segmentJSON `json:"segments"`
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the parsed dialogue events as JSON",
		Long: `Load a subtitle script and print its dialogue events in playback order,
with the decoded style of every line.

Examples:
  subplay events
  subplay events -s movie.ass -o events.json
  subplay events -s https://example.com/movie.ass --translate-to japanese`,
		Args: cobra.NoArgs,
		RunE: runEvents,
	}

	addSourceFlags(cmd.Flags())
	addTranslateFlags(cmd.Flags())
	cmd.Flags().StringP("output", "o", "", "Output file path (default stdout)")

	return cmd
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	events, err := loadEvents(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}

	out := make([]eventJSON, len(events))
	for i, e := range events {
		out[i] = toEventJSON(e)
	}

	var w io.Writer = cmd.OutOrStdout()
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}

	if outputPath != "" {
		logger.Infow("Wrote events", "output", outputPath, "events", len(out))
	}
	return nil
}

func toEventJSON(e subtitle.DialogueEvent) eventJSON {
	segments := make([]segmentJSON, 0, 1)
	for _, seg := range subtitle.Decode(e.Text) {
		sj := segmentJSON{
			Text:      seg.Text,
			Bold:      seg.Style.Bold,
			Italic:    seg.Style.Italic,
			Underline: seg.Style.Underline,
			StrikeOut: seg.Style.StrikeOut,
		}
		if seg.Style.Color != nil {
			sj.Color = seg.Style.Color.String()
		}
		segments = append(segments, sj)
	}

	return eventJSON{
		Start:    subtitle.FormatTimestamp(e.Start),
		End:      subtitle.FormatTimestamp(e.End),
		StartMs:  e.StartMs(),
		EndMs:    e.EndMs(),
		Layer:    e.Layer,
		Style:    e.Style,
		Effect:   e.Effect,
		Text:     e.Text,
		Segments: segments,
	}
}
