package leaderboardqueue

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognizedTime is returned when input is neither natural language nor RFC3339.
var ErrUnrecognizedTime = errors.New("could not recognize time")

// "932am" -> "9:32 am"
var compactClock = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)

var parser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseWhen turns operator input such as "in 2 hours" or "tomorrow at 9am"
// into an absolute time relative to now. RFC3339 timestamps are accepted as is.
func ParseWhen(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognizedTime)
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := parser.Parse(normalized, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrUnrecognizedTime, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedTime, input)
	}
	return r.Time, nil
}
