package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// H:MM:SS.cc, hours unbounded
var timestampRegex = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{2})$`)

// ParseTimestamp converts an event timestamp such as "0:01:04.50" into a
// duration with centisecond precision.
func ParseTimestamp(ts string) (time.Duration, error) {
	matches := timestampRegex.FindStringSubmatch(strings.TrimSpace(ts))
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}

	hours, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: hours %q", ErrInvalidTimestamp, matches[1])
	}
	// the regex already pins these to two digits
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])
	centis, _ := strconv.Atoi(matches[4])

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centis)*10*time.Millisecond, nil
}

// FormatTimestamp renders d in the H:MM:SS.cc form, truncating below
// centiseconds.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}
