// Package calendar exports course slots as iCalendar feeds.
//
// Each slot with a parsed weekly time becomes one VEVENT that recurs weekly,
// starting at its next occurrence. Times are local to Europe/Berlin, where
// all providers are located.
package calendar

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/unisport/internal/course"
)

// TimeZone is the zone of all provider times
const TimeZone = "Europe/Berlin"

const (
	productID   = "-//unisport//unisport catalog//DE"
	localLayout = "20060102T150405"
	uidDomain   = "unisport.berlin"
)

var byDay = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// NewCalendar builds a calendar with one weekly recurring event per timed
// slot of c. Slots without a parsed time are skipped.
func NewCalendar(c *course.Course, now time.Time) (*ics.Calendar, error) {
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(c.Name)
	cal.SetXWRTimezone(TimeZone)
	addTimeZone(cal)

	tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{TimeZone}}

	for _, slot := range c.Slots {
		if slot.Time == nil {
			continue
		}
		weekday, ok := slot.Time.Day.Weekday()
		if !ok {
			continue
		}

		start := NextOccurrence(now.In(loc), weekday, slot.Time.Start)
		end := atMinutes(start, slot.Time.End)
		// Inverted ranges end on the following day
		if slot.Time.End < slot.Time.Start {
			end = end.AddDate(0, 0, 1)
		}

		event := cal.AddEvent(fmt.Sprintf("%s@%s", slot.ID, uidDomain))
		event.SetDtStampTime(now)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(localLayout), tzid)
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(localLayout), tzid)
		event.AddRrule("FREQ=WEEKLY;BYDAY=" + byDay[weekday])
		event.SetSummary(summary(c, slot))
		event.SetDescription(description(c, slot))
		event.SetURL(c.URL)
		if slot.Location != nil {
			event.SetLocation(slot.Location.Name)
		}
	}

	return cal, nil
}

// GenerateICS renders the calendar of a course as an .ics document
func GenerateICS(c *course.Course, now time.Time) (string, error) {
	cal, err := NewCalendar(c, now)
	if err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

// NextOccurrence returns the first time at or after now that falls on
// weekday at the given minutes since midnight, in now's location
func NextOccurrence(now time.Time, weekday time.Weekday, minutes int) time.Time {
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	candidate := atMinutes(now.AddDate(0, 0, days), minutes)
	if candidate.Before(now) {
		candidate = atMinutes(now.AddDate(0, 0, days+7), minutes)
	}
	return candidate
}

// atMinutes returns midnight of t's date plus minutes, in t's location
func atMinutes(t time.Time, minutes int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), minutes/60, minutes%60, 0, 0, t.Location())
}

func summary(c *course.Course, slot *course.Slot) string {
	if slot.Name == "" || slot.Name == c.Name {
		return c.Name
	}
	return fmt.Sprintf("%s: %s", c.Name, slot.Name)
}

func description(c *course.Course, slot *course.Slot) string {
	var lines []string
	if slot.Date != "" {
		lines = append(lines, "Zeitraum: "+slot.Date)
	}
	if len(slot.Prices) > 0 {
		prices := make([]string, len(slot.Prices))
		for i, p := range slot.Prices {
			prices[i] = fmt.Sprintf("%.2f €", p)
		}
		lines = append(lines, "Preise: "+strings.Join(prices, " / "))
	}
	if slot.Bookable != "" {
		lines = append(lines, "Status: "+string(slot.Bookable))
	}
	if c.DescriptionText != "" {
		lines = append(lines, c.DescriptionText)
	}
	return strings.Join(lines, "\n")
}
