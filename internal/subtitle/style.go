package subtitle

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	controlBlockRegex = regexp.MustCompile(`\{[^}]*\}`)
	colorCodeRegex    = regexp.MustCompile(`\\c&H([0-9A-Fa-f]{6})&`)
)

// on/off override pair for one boolean attribute
type toggleCode struct {
	on, off string
	field   func(*Style) **bool
}

var toggleCodes = []toggleCode{
	{on: `\b1`, off: `\b0`, field: func(s *Style) **bool { return &s.Bold }},
	{on: `\i1`, off: `\i0`, field: func(s *Style) **bool { return &s.Italic }},
	{on: `\u1`, off: `\u0`, field: func(s *Style) **bool { return &s.Underline }},
	{on: `\s1`, off: `\s0`, field: func(s *Style) **bool { return &s.StrikeOut }},
}

// Decode turns raw dialogue text into renderable segments. Every control
// block updates one cumulative style and all plain text is joined, so the
// result holds at most one segment.
func Decode(raw string) []Segment {
	if raw == "" {
		return nil
	}

	blocks := controlBlockRegex.FindAllStringIndex(raw, -1)

	var plain strings.Builder
	var style Style
	lastIndex := 0

	for _, loc := range blocks {
		plain.WriteString(raw[lastIndex:loc[0]])
		applyControlBlock(&style, raw[loc[0]:loc[1]])
		lastIndex = loc[1]
	}
	plain.WriteString(raw[lastIndex:])

	text := strings.TrimSpace(plain.String())
	if text != "" {
		return []Segment{{Text: text, Style: style}}
	}

	if len(blocks) == 0 {
		return []Segment{{Text: strings.TrimSpace(raw)}}
	}

	return nil
}

func applyControlBlock(style *Style, block string) {
	for _, code := range toggleCodes {
		on := strings.LastIndex(block, code.on)
		off := strings.LastIndex(block, code.off)
		if on < 0 && off < 0 {
			continue
		}
		value := on > off
		*code.field(style) = &value
	}

	matches := colorCodeRegex.FindAllStringSubmatch(block, -1)
	if len(matches) == 0 {
		return
	}
	if c, ok := parseHexColor(matches[len(matches)-1][1]); ok {
		style.Color = &c
	}
}

func parseHexColor(hex string) (Color, bool) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return Color{}, false
	}
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, true
}

// SplitControlBlocks separates raw dialogue text into its control blocks,
// concatenated in order, and its plain text. Decode(blocks + plain) yields
// the same style as Decode(raw).
func SplitControlBlocks(raw string) (blocks string, plain string) {
	var tags, text strings.Builder
	lastIndex := 0
	for _, loc := range controlBlockRegex.FindAllStringIndex(raw, -1) {
		text.WriteString(raw[lastIndex:loc[0]])
		tags.WriteString(raw[loc[0]:loc[1]])
		lastIndex = loc[1]
	}
	text.WriteString(raw[lastIndex:])
	return tags.String(), text.String()
}
