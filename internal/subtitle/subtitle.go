package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// single timed dialogue line from the [Events] section
type DialogueEvent struct {
	Start  time.Duration
	End    time.Duration
	Text   string
	Style  string
	Effect string
	Layer  int
}

// StartMs returns the start bound in whole milliseconds.
func (e DialogueEvent) StartMs() int64 {
	return e.Start.Milliseconds()
}

// EndMs returns the end bound in whole milliseconds.
func (e DialogueEvent) EndMs() int64 {
	return e.End.Milliseconds()
}

// Contains reports whether pos falls inside [Start, End].
func (e DialogueEvent) Contains(pos time.Duration) bool {
	return pos >= e.Start && pos <= e.End
}

// RGB colour taken from a \c&H...& override
type Color struct {
	R, G, B uint8
}

// hex string in document digit order, e.g. "#FF0000"
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Swapped reinterprets the colour as blue-green-red, the byte order the
// script format actually stores.
func (c Color) Swapped() Color {
	return Color{R: c.B, G: c.G, B: c.R}
}

// sparse style attributes; nil means unset
type Style struct {
	Bold      *bool
	Italic    *bool
	Underline *bool
	StrikeOut *bool
	Color     *Color
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s.Bold == nil && s.Italic == nil && s.Underline == nil &&
		s.StrikeOut == nil && s.Color == nil
}

// IsBold reports whether bold is set and true. Same for the other helpers.
func (s Style) IsBold() bool      { return s.Bold != nil && *s.Bold }
func (s Style) IsItalic() bool    { return s.Italic != nil && *s.Italic }
func (s Style) IsUnderline() bool { return s.Underline != nil && *s.Underline }
func (s Style) IsStrikeOut() bool { return s.StrikeOut != nil && *s.StrikeOut }

// run of plain text with the style applied to it
type Segment struct {
	Text  string
	Style Style
}

var displayReplacer = strings.NewReplacer(
	"\\N", "\n",
	"\\n", "\n",
	"\\h", " ",
)

// DisplayText resolves the script's line-break and hard-space escapes.
func (s Segment) DisplayText() string {
	return displayReplacer.Replace(s.Text)
}
