package playback

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/mgpai22/subplay/internal/subtitle"
)

const ansiReset = "\x1b[0m"

type TerminalOptions struct {
	// ANSI enables escape-sequence styling.
	ANSI bool
	// SwapColors reads override colours as blue-green-red.
	SwapColors bool
}

// TerminalRenderer prints one line per subtitle change.
type TerminalRenderer struct {
	w    io.Writer
	opts TerminalOptions
}

func NewTerminalRenderer(w io.Writer, opts TerminalOptions) *TerminalRenderer {
	return &TerminalRenderer{w: w, opts: opts}
}

// IsTerminal reports whether f is attached to a terminal that understands
// escape sequences.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *TerminalRenderer) Render(frame Frame) error {
	prefix := fmt.Sprintf("[%s / %s] ", formatClock(frame.Position), formatClock(frame.Duration))

	if len(frame.Segments) == 0 {
		_, err := fmt.Fprintln(r.w, strings.TrimRight(prefix, " "))
		return err
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	indent := strings.Repeat(" ", len(prefix))
	for _, seg := range frame.Segments {
		text := strings.ReplaceAll(seg.DisplayText(), "\n", "\n"+indent)
		sb.WriteString(r.styled(text, seg.Style))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(r.w, sb.String())
	return err
}

func (r *TerminalRenderer) styled(text string, style subtitle.Style) string {
	if !r.opts.ANSI {
		return text
	}

	var codes []string
	if style.IsBold() {
		codes = append(codes, "1")
	}
	if style.IsItalic() {
		codes = append(codes, "3")
	}
	if style.IsUnderline() {
		codes = append(codes, "4")
	}
	if style.IsStrikeOut() {
		codes = append(codes, "9")
	}
	if style.Color != nil {
		c := *style.Color
		if r.opts.SwapColors {
			c = c.Swapped()
		}
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B))
	}

	if len(codes) == 0 {
		return text
	}
	return "\x1b[" + strings.Join(codes, ";") + "m" + text + ansiReset
}

// m:ss like the player's progress label
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
