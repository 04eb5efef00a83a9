package course

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPrices is the maximum number of prices kept per slot
const MaxPrices = 4

// ParseClock converts "H:MM" or "HH:MM" into minutes since midnight.
//
// Grammar:
//
//	clock   = hours ":" minutes
//	hours   = digit [digit]          (0-24)
//	minutes = digit digit            (0-59)
//
// Surrounding whitespace is ignored.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}

	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 24 {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}

	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseTimeRange splits "08:30-10:00" at the first dash and parses both clocks.
// The second return value is false if there is no dash or a clock is malformed.
func ParseTimeRange(s string) (start, end int, ok bool) {
	from, to, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}

	start, err := ParseClock(from)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(to)
	if err != nil {
		return 0, 0, false
	}

	return start, end, true
}

// ParseTimeSlot builds a TimeSlot from the raw day and time fields of a slot.
// Returns nil when either is missing, the day is unknown or the time is
// free text without a dash.
func ParseTimeSlot(dayRaw, timeRaw *string) *TimeSlot {
	if dayRaw == nil || timeRaw == nil {
		return nil
	}

	day, ok := ParseDay(*dayRaw)
	if !ok {
		return nil
	}

	start, end, ok := ParseTimeRange(*timeRaw)
	if !ok {
		return nil
	}

	return &TimeSlot{Day: day, Start: start, End: end}
}

// ParsePrices extracts up to MaxPrices numbers from a free-text price string,
// left to right. Currency symbols and words between the numbers are skipped.
//
// Grammar of a number token:
//
//	token = (digit | "," | ".")+     containing at least one digit
//
// Within a token the last separator is the decimal separator when it is
// followed by one or two digits; every other separator groups thousands.
// Leading and trailing separators are dropped.
// "12,50" is 12.5, "1.234,50" is 1234.5, "18,-" is 18.
func ParsePrices(s string) []float64 {
	prices := make([]float64, 0, MaxPrices)

	for _, token := range numberTokens(s) {
		if len(prices) == MaxPrices {
			break
		}
		if v, ok := tokenValue(token); ok {
			prices = append(prices, v)
		}
	}

	return prices
}

// numberTokens splits s into maximal runs of digits and separators that
// contain at least one digit
func numberTokens(s string) []string {
	var tokens []string
	var current strings.Builder
	hasDigit := false

	flush := func() {
		if hasDigit {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		hasDigit = false
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			current.WriteRune(r)
			hasDigit = true
		case r == ',' || r == '.':
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// tokenValue converts a number token into a float
func tokenValue(token string) (float64, bool) {
	token = strings.Trim(token, ",.")
	if token == "" {
		return 0, false
	}

	intPart, fracPart := token, ""
	if i := strings.LastIndexAny(token, ",."); i >= 0 {
		tail := token[i+1:]
		if len(tail) == 1 || len(tail) == 2 {
			intPart, fracPart = token[:i], tail
		}
	}

	digits := strings.Map(func(r rune) rune {
		if r == ',' || r == '.' {
			return -1
		}
		return r
	}, intPart)
	if digits == "" {
		digits = "0"
	}
	if fracPart != "" {
		digits += "." + fracPart
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
