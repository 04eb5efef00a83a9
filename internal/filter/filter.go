// Package filter evaluates the catalog's compound filters over course events.
//
// A filter combines these criteria, all of which must hold:
//   - Search term: the event's course must be a search index match (terms of 3+ characters)
//   - Booking status: the slot's status must be one of the selected ones
//   - Day: the slot must take place on the selected weekday
//   - Start/End: the slot's time window must lie within the given clock bounds
//
// Empty criteria ("" strings, "all" day, no statuses) match everything, and a
// slot without a parsed time fails every active time criterion.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Day = "Mo"
//	f.Start = "17:00"
//	f.Bookable = []course.BookingStatus{course.Bookable}
//
//	events := f.Apply(course.Events(courses), index)
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/unisport/internal/course"
	"github.com/pfrederiksen/unisport/internal/search"
)

// ErrInvalidFilter is wrapped by every Validate error
var ErrInvalidFilter = errors.New("invalid filter")

// Filter represents the event filtering criteria
type Filter struct {
	Bookable   []course.BookingStatus `json:"bookable"`
	Day        string                 `json:"day"`   // course.Day or course.AllDays
	Start      string                 `json:"start"` // "HH:MM" or ""
	End        string                 `json:"end"`   // "HH:MM" or ""
	SearchTerm string                 `json:"search_term"`
}

// NewFilter creates a filter with no active criteria
func NewFilter() *Filter {
	return &Filter{
		Bookable: []course.BookingStatus{},
		Day:      course.AllDays,
	}
}

// DefaultFilter is the initial catalog filter: only directly bookable slots
func DefaultFilter() *Filter {
	f := NewFilter()
	f.Bookable = []course.BookingStatus{course.Bookable}
	return f
}

// IsEmpty reports whether the filter matches every event
func (f *Filter) IsEmpty() bool {
	return len(f.Bookable) == 0 &&
		f.dayAll() &&
		f.Start == "" &&
		f.End == "" &&
		!search.Active(f.SearchTerm)
}

func (f *Filter) dayAll() bool {
	return f.Day == "" || f.Day == course.AllDays
}

// Validate checks the day, clock strings and booking statuses
func (f *Filter) Validate() error {
	if !f.dayAll() {
		if _, ok := course.ParseDay(f.Day); !ok {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidFilter, f.Day)
		}
	}
	if f.Start != "" {
		if _, err := course.ParseClock(f.Start); err != nil {
			return fmt.Errorf("%w: start: %v", ErrInvalidFilter, err)
		}
	}
	if f.End != "" {
		if _, err := course.ParseClock(f.End); err != nil {
			return fmt.Errorf("%w: end: %v", ErrInvalidFilter, err)
		}
	}
	for _, s := range f.Bookable {
		if _, ok := course.ParseBookingStatus(string(s)); !ok {
			return fmt.Errorf("%w: unknown booking status %q", ErrInvalidFilter, s)
		}
	}
	return nil
}

// bounds holds the parsed time criteria
type bounds struct {
	day      course.Day
	hasDay   bool
	start    int
	hasStart bool
	end      int
	hasEnd   bool
}

// parseBounds parses the time criteria. Unparseable clock strings are
// treated as inactive; Validate reports them.
func (f *Filter) parseBounds() bounds {
	var b bounds
	if !f.dayAll() {
		b.day, b.hasDay = course.Day(f.Day), true
	}
	if f.Start != "" {
		if v, err := course.ParseClock(f.Start); err == nil {
			b.start, b.hasStart = v, true
		}
	}
	if f.End != "" {
		if v, err := course.ParseClock(f.End); err == nil {
			b.end, b.hasEnd = v, true
		}
	}
	return b
}

// MatchesSlot checks the booking and time criteria against a slot
func (f *Filter) MatchesSlot(slot *course.Slot) bool {
	return f.matchesSlot(slot, f.parseBounds())
}

func (f *Filter) matchesSlot(slot *course.Slot, b bounds) bool {
	if len(f.Bookable) > 0 {
		if slot.Bookable == "" || !containsStatus(f.Bookable, slot.Bookable) {
			return false
		}
	}

	if !b.hasDay && !b.hasStart && !b.hasEnd {
		return true
	}

	// Absent time data fails any active time criterion
	tm := slot.Time
	if tm == nil {
		return false
	}

	if b.hasDay && tm.Day != b.day {
		return false
	}
	if b.hasStart && tm.Start < b.start {
		return false
	}
	// Start is checked against the end bound too, for inverted ranges
	if b.hasEnd && (tm.End > b.end || tm.Start > b.end) {
		return false
	}

	return true
}

func containsStatus(statuses []course.BookingStatus, s course.BookingStatus) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

// Apply returns the events that match every active criterion.
//
// With an active search term only events of courses returned by idx pass,
// ordered by search rank and then by their position in events. Otherwise the
// order of events is kept. The input is never modified.
func (f *Filter) Apply(events []*course.Event, idx search.Index) []*course.Event {
	b := f.parseBounds()

	if !search.Active(f.SearchTerm) || idx == nil {
		filtered := make([]*course.Event, 0, len(events))
		for _, evt := range events {
			if f.matchesSlot(evt.Slot, b) {
				filtered = append(filtered, evt)
			}
		}
		return filtered
	}

	matches := idx.Search(f.SearchTerm)
	rank := make(map[string]int, len(matches))
	for i, c := range matches {
		if _, seen := rank[c.ID]; !seen {
			rank[c.ID] = i
		}
	}

	buckets := make([][]*course.Event, len(matches))
	for _, evt := range events {
		r, ok := rank[evt.Course.ID]
		if !ok || !f.matchesSlot(evt.Slot, b) {
			continue
		}
		buckets[r] = append(buckets[r], evt)
	}

	filtered := make([]*course.Event, 0)
	for _, bucket := range buckets {
		filtered = append(filtered, bucket...)
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "Search: yoga | Bookable: bookable | Day: Montag | From: 17:00 | To: 20:00"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if search.Active(f.SearchTerm) {
		parts = append(parts, fmt.Sprintf("Search: %s", strings.TrimSpace(f.SearchTerm)))
	}
	if len(f.Bookable) > 0 {
		names := make([]string, len(f.Bookable))
		for i, s := range f.Bookable {
			names[i] = string(s)
		}
		parts = append(parts, fmt.Sprintf("Bookable: %s", strings.Join(names, ", ")))
	}
	if !f.dayAll() {
		parts = append(parts, fmt.Sprintf("Day: %s", course.Day(f.Day).Label()))
	}
	if f.Start != "" {
		parts = append(parts, fmt.Sprintf("From: %s", f.Start))
	}
	if f.End != "" {
		parts = append(parts, fmt.Sprintf("To: %s", f.End))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter
func (f *Filter) Clone() *Filter {
	clone := *f
	clone.Bookable = make([]course.BookingStatus, len(f.Bookable))
	copy(clone.Bookable, f.Bookable)
	return &clone
}
