package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/unisport/internal/course"
)

func testCourse() *course.Course {
	hall := &course.Location{Name: "Sporthalle Nord", URL: "https://www.tu-sport.de/halle-nord"}
	return &course.Course{
		ID:              "ba7816bf",
		Name:            "Volleyball",
		URL:             "https://www.tu-sport.de/volleyball.html",
		DescriptionText: "Mixed Teams",
		Slots: []*course.Slot{
			{
				ID:       "ba7816bf-0",
				Name:     "Volleyball Level 1",
				Prices:   []float64{12.5, 18},
				Location: hall,
				Bookable: course.Bookable,
				Time:     &course.TimeSlot{Day: course.Monday, Start: 18*60 + 30, End: 20 * 60},
				Date:     "14.04.-14.07.",
			},
			{
				ID:   "ba7816bf-1",
				Name: "Volleyball frei",
				// free-text time, not exported
			},
			{
				ID:   "ba7816bf-2",
				Name: "Volleyball Nacht",
				Time: &course.TimeSlot{Day: course.Saturday, Start: 22 * 60, End: 60},
			},
		},
	}
}

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	return loc
}

func TestGenerateICS(t *testing.T) {
	loc := berlin(t)
	// Wednesday
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, loc)

	out, err := GenerateICS(testCourse(), now)
	if err != nil {
		t.Fatalf("GenerateICS() error = %v", err)
	}
	if !strings.Contains(out, "\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}

	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (untimed slot skipped)", len(events))
	}

	first := events[0]
	if first.Id() != "ba7816bf-0@unisport.berlin" {
		t.Errorf("UID = %q", first.Id())
	}

	tests := []struct {
		prop ics.ComponentProperty
		want string
	}{
		{ics.ComponentPropertyDtStart, "20260316T183000"},
		{ics.ComponentPropertyDtEnd, "20260316T200000"},
		{ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY=MO"},
		{ics.ComponentPropertySummary, "Volleyball: Volleyball Level 1"},
		{ics.ComponentPropertyLocation, "Sporthalle Nord"},
	}
	for _, tt := range tests {
		p := first.GetProperty(tt.prop)
		if p == nil {
			t.Errorf("missing %s", tt.prop)
			continue
		}
		if p.Value != tt.want {
			t.Errorf("%s = %q, want %q", tt.prop, p.Value, tt.want)
		}
	}

	start := first.GetProperty(ics.ComponentPropertyDtStart)
	if tz := start.ICalParameters[string(ics.ParameterTzid)]; len(tz) != 1 || tz[0] != TimeZone {
		t.Errorf("DTSTART TZID = %v, want %s", tz, TimeZone)
	}
}

func TestGenerateICS_DefinesTimeZone(t *testing.T) {
	out, err := GenerateICS(testCourse(), time.Date(2026, 3, 11, 12, 0, 0, 0, berlin(t)))
	if err != nil {
		t.Fatalf("GenerateICS() error = %v", err)
	}

	for _, want := range []string{
		"BEGIN:VTIMEZONE",
		"TZID:Europe/Berlin",
		"BEGIN:DAYLIGHT",
		"TZOFFSETTO:+0200",
		"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU",
		"BEGIN:STANDARD",
		"TZOFFSETTO:+0100",
		"RRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q", want)
		}
	}
	if strings.Index(out, "BEGIN:VTIMEZONE") > strings.Index(out, "BEGIN:VEVENT") {
		t.Error("VTIMEZONE should precede the events referencing it")
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	found := false
	for _, c := range cal.Components {
		if _, ok := c.(*ics.VTimezone); ok {
			found = true
		}
	}
	if !found {
		t.Error("parsed calendar has no VTIMEZONE component")
	}
}

func TestGenerateICS_InvertedRangeEndsNextDay(t *testing.T) {
	loc := berlin(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, loc)

	cal, err := NewCalendar(testCourse(), now)
	if err != nil {
		t.Fatalf("NewCalendar() error = %v", err)
	}

	night := cal.Events()[1]
	if got := night.GetProperty(ics.ComponentPropertyDtStart).Value; got != "20260314T220000" {
		t.Errorf("DTSTART = %q", got)
	}
	if got := night.GetProperty(ics.ComponentPropertyDtEnd).Value; got != "20260315T010000" {
		t.Errorf("DTEND = %q", got)
	}
	if got := night.GetProperty(ics.ComponentPropertyRrule).Value; got != "FREQ=WEEKLY;BYDAY=SA" {
		t.Errorf("RRULE = %q", got)
	}
}

func TestGenerateICS_NoTimedSlots(t *testing.T) {
	c := &course.Course{ID: "x", Name: "Kletterwand", Slots: []*course.Slot{{ID: "x-0"}}}

	cal, err := NewCalendar(c, time.Now())
	if err != nil {
		t.Fatalf("NewCalendar() error = %v", err)
	}
	if n := len(cal.Events()); n != 0 {
		t.Errorf("got %d events, want 0", n)
	}
}

func TestNextOccurrence(t *testing.T) {
	loc := berlin(t)
	// Wednesday 2026-03-11 12:00
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, loc)

	tests := []struct {
		name    string
		weekday time.Weekday
		minutes int
		want    time.Time
	}{
		{"later today", time.Wednesday, 18 * 60, time.Date(2026, 3, 11, 18, 0, 0, 0, loc)},
		{"exactly now", time.Wednesday, 12 * 60, now},
		{"earlier today", time.Wednesday, 8 * 60, time.Date(2026, 3, 18, 8, 0, 0, 0, loc)},
		{"tomorrow", time.Thursday, 9 * 60, time.Date(2026, 3, 12, 9, 0, 0, 0, loc)},
		{"next monday", time.Monday, 0, time.Date(2026, 3, 16, 0, 0, 0, 0, loc)},
		{"sunday", time.Sunday, 10 * 60, time.Date(2026, 3, 15, 10, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(now, tt.weekday, tt.minutes)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}
