package subtitle

import (
	"sort"
	"strconv"
	"strings"
)

const (
	eventsHeader    = "[Events]"
	formatPrefix    = "Format:"
	dialoguePrefix  = "Dialogue:"
	defaultStyle    = "Default"
	columnStart     = "Start"
	columnEnd       = "End"
	columnText      = "Text"
	columnStyle     = "Style"
	columnEffect    = "Effect"
	columnLayer     = "Layer"
	byteOrderMarker = "\ufeff"
)

// knobs for how dialogue lines are split
type ParseOptions struct {
	// KeepTextCommas re-joins commas inside the Text column when it is the
	// last declared column. Off by default: the naive split truncates
	// dialogue at its first comma.
	KeepTextCommas bool
}

// column layout declared by the most recent Format: line
type formatTable struct {
	columns []string
	index   map[string]int
}

func newFormatTable(format string) formatTable {
	columns := strings.Split(format, ",")
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
		if _, dup := index[columns[i]]; !dup {
			index[columns[i]] = i
		}
	}
	return formatTable{columns: columns, index: index}
}

func (t formatTable) field(tokens []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(tokens) {
		return ""
	}
	return tokens[i]
}

// Parse reads the dialogue events out of a script document. Malformed lines
// are dropped; the result is sorted by start time, stable on ties.
func Parse(document string) []DialogueEvent {
	return ParseWithOptions(document, ParseOptions{})
}

func ParseWithOptions(document string, opts ParseOptions) []DialogueEvent {
	lines := strings.Split(document, "\n")
	events := make([]DialogueEvent, 0)

	inEventsSection := false
	var format formatTable

	for lineNum, raw := range lines {
		if lineNum == 0 {
			raw = strings.TrimPrefix(raw, byteOrderMarker)
		}
		line := strings.TrimSpace(raw)

		if line == eventsHeader {
			inEventsSection = true
			continue
		}

		if strings.HasPrefix(line, formatPrefix) {
			format = newFormatTable(strings.TrimPrefix(line, formatPrefix))
			continue
		}

		if !inEventsSection || !strings.HasPrefix(line, dialoguePrefix) {
			continue
		}

		event, ok := parseDialogue(
			strings.TrimPrefix(line, dialoguePrefix),
			format,
			opts,
		)
		if ok {
			events = append(events, event)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})

	return events
}

func parseDialogue(
	content string,
	format formatTable,
	opts ParseOptions,
) (DialogueEvent, bool) {
	tokens := strings.Split(content, ",")
	if len(tokens) < len(format.columns) {
		return DialogueEvent{}, false
	}

	start, err := ParseTimestamp(format.field(tokens, columnStart))
	if err != nil {
		return DialogueEvent{}, false
	}
	end, err := ParseTimestamp(format.field(tokens, columnEnd))
	if err != nil {
		return DialogueEvent{}, false
	}
	if end < start {
		return DialogueEvent{}, false
	}

	text := format.field(tokens, columnText)
	if opts.KeepTextCommas {
		if i, ok := format.index[columnText]; ok &&
			i == len(format.columns)-1 {
			text = strings.Join(tokens[i:], ",")
		}
	}

	style := format.field(tokens, columnStyle)
	if style == "" {
		style = defaultStyle
	}

	layer, err := strconv.Atoi(strings.TrimSpace(format.field(tokens, columnLayer)))
	if err != nil {
		layer = 0
	}

	return DialogueEvent{
		Start:  start,
		End:    end,
		Text:   text,
		Style:  style,
		Effect: format.field(tokens, columnEffect),
		Layer:  layer,
	}, true
}
