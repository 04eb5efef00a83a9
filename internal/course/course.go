// Package course provides the normalized domain model of the university sports catalog
package course

// Location is a venue where course slots take place. Its identity is URL.
type Location struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	URL       string  `json:"url"`
}

// TimeSlot is a weekly recurring time window in minutes since midnight.
// Start <= End is not guaranteed; provider data contains inverted ranges.
type TimeSlot struct {
	Day   Day `json:"day"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Slot is one scheduled offering of a course
type Slot struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Prices   []float64     `json:"prices"`             // left to right as listed, first is the student price
	Location *Location     `json:"location,omitempty"` // shared, not owned
	Bookable BookingStatus `json:"bookable,omitempty"` // empty when the raw text is unknown
	Time     *TimeSlot     `json:"time,omitempty"`
	DayRaw   string        `json:"day_raw"`
	TimeRaw  string        `json:"time_raw"`
	Date     string        `json:"date,omitempty"` // course period as published
}

// Course is a normalized provider course with its slots
type Course struct {
	ID          string   `json:"id"` // ShortHash(URL)
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Provider    Provider `json:"provider,omitempty"` // empty when the hostname is unknown
	Slots       []*Slot  `json:"slots"`

	// DescriptionText is Description with markup removed, used for searching
	DescriptionText string `json:"-"`
}

// Event pairs a course with one of its slots
type Event struct {
	Course   *Course   `json:"course"`
	Slot     *Slot     `json:"slot"`
	Location *Location `json:"location,omitempty"`
}

// Events returns one event per slot of every course, in course then slot order.
func Events(courses []*Course) []*Event {
	events := make([]*Event, 0, len(courses))
	for _, c := range courses {
		for _, s := range c.Slots {
			events = append(events, &Event{Course: c, Slot: s, Location: s.Location})
		}
	}
	return events
}

// LocationNames returns the distinct names of the locations used by the course's slots
func (c *Course) LocationNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range c.Slots {
		if s.Location == nil || seen[s.Location.Name] {
			continue
		}
		seen[s.Location.Name] = true
		names = append(names, s.Location.Name)
	}
	return names
}

// MinPrice returns the lowest first-listed price among the course's slots.
// The second return value is false if no slot has a price.
func (c *Course) MinPrice() (float64, bool) {
	found := false
	var min float64
	for _, s := range c.Slots {
		if len(s.Prices) == 0 {
			continue
		}
		if !found || s.Prices[0] < min {
			min = s.Prices[0]
			found = true
		}
	}
	return min, found
}
