package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/unisport/internal/course"
)

// ParseWindow parses a weekly time window into day, start and end filter values.
//
// Supported formats:
//   - "Mo" - a whole day
//   - "Mo 17:00-20:00" - a day with start and end
//   - "17:00-20:00" - any day between start and end
//   - "Mo 17:00-" / "Mo -20:00" - open ended
//
// The day is returned as course.AllDays when omitted, open bounds as "".
func ParseWindow(input string) (day, start, end string, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", "", fmt.Errorf("%w: window cannot be empty", ErrInvalidFilter)
	}

	day = course.AllDays
	rest := input

	fields := strings.Fields(input)
	if d, ok := course.ParseDay(fields[0]); ok {
		day = string(d)
		rest = strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
	}

	if rest == "" {
		if day == course.AllDays {
			return "", "", "", fmt.Errorf("%w: invalid window %q", ErrInvalidFilter, input)
		}
		return day, "", "", nil
	}

	from, to, found := strings.Cut(rest, "-")
	if !found {
		return "", "", "", fmt.Errorf("%w: window %q needs a dash between start and end", ErrInvalidFilter, input)
	}

	start, err = normalizeClock(from)
	if err != nil {
		return "", "", "", err
	}
	end, err = normalizeClock(to)
	if err != nil {
		return "", "", "", err
	}
	if start == "" && end == "" {
		return "", "", "", fmt.Errorf("%w: window %q has no bounds", ErrInvalidFilter, input)
	}

	return day, start, end, nil
}

// normalizeClock validates s and renders it as "HH:MM"; blank stays ""
func normalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	minutes, err := course.ParseClock(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return course.FormatClock(minutes), nil
}
