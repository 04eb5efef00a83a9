package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/unisport/internal/course"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// CoursesResult is one page of matching courses
type CoursesResult struct {
	Filter   string           `json:"filter"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
	Courses  []*course.Course `json:"courses"`
}

// EventView is a slot with the name of its course
type EventView struct {
	CourseID   string          `json:"course_id"`
	CourseName string          `json:"course_name"`
	Provider   course.Provider `json:"provider,omitempty"`
	Slot       *course.Slot    `json:"slot"`
}

// EventsResult contains the matching events
type EventsResult struct {
	Filter string      `json:"filter"`
	Total  int         `json:"total"`
	Events []EventView `json:"events"`
}

// LocationView is a venue with the names of its courses
type LocationView struct {
	*course.Location
	Courses []string `json:"courses"`
}

// LocationsResult contains all venues
type LocationsResult struct {
	Locations []LocationView `json:"locations"`
}

func newEventViews(events []*course.Event) []EventView {
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = EventView{
			CourseID:   e.Course.ID,
			CourseName: e.Course.Name,
			Provider:   e.Course.Provider,
			Slot:       e.Slot,
		}
	}
	return views
}

// WriteCourses writes a page of courses in the specified format
func WriteCourses(w io.Writer, result *CoursesResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		if result.Courses == nil {
			result.Courses = []*course.Course{}
		}
		return writeJSON(w, result)
	case FormatText:
		return writeCoursesText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteEvents writes events in the specified format
func WriteEvents(w io.Writer, result *EventsResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeEventsText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteLocations writes venues in the specified format
func WriteLocations(w io.Writer, result *LocationsResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		if result.Locations == nil {
			result.Locations = []LocationView{}
		}
		return writeJSON(w, result)
	case FormatText:
		return writeLocationsText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeCoursesText(w io.Writer, result *CoursesResult, verbose bool) error {
	if result.Total == 0 {
		fmt.Fprintln(w, "No courses found.")
		return nil
	}
	if len(result.Courses) == 0 {
		fmt.Fprintf(w, "Page %d is empty (%d courses).\n", result.Page, result.Total)
		return nil
	}

	for _, c := range result.Courses {
		fmt.Fprintf(w, "%s  %s", c.ID, c.Name)
		if c.Provider != "" {
			fmt.Fprintf(w, " [%s]", c.Provider)
		}
		if price, ok := c.MinPrice(); ok {
			fmt.Fprintf(w, " ab %s", formatPrice(price))
		}
		fmt.Fprintf(w, " (%d %s)\n", len(c.Slots), plural(len(c.Slots), "slot", "slots"))

		if verbose {
			fmt.Fprintf(w, "          URL: %s\n", c.URL)
			if names := c.LocationNames(); len(names) > 0 {
				fmt.Fprintf(w, "          Locations: %s\n", strings.Join(names, ", "))
			}
			for _, s := range c.Slots {
				fmt.Fprintf(w, "          - %s\n", slotLine(s))
			}
		}
	}

	pages := (result.Total + result.PageSize - 1) / result.PageSize
	fmt.Fprintf(w, "\nPage %d of %d (Total: %d courses) | %s\n", result.Page, pages, result.Total, result.Filter)
	return nil
}

func writeEventsText(w io.Writer, result *EventsResult, verbose bool) error {
	if result.Total == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, e := range result.Events {
		fmt.Fprintf(w, "%-16s %s: %s\n", slotTime(e.Slot), e.CourseName, slotLine(e.Slot))
		if verbose {
			fmt.Fprintf(w, "                 ID: %s  Course: %s\n", e.Slot.ID, e.CourseID)
			if e.Slot.Date != "" {
				fmt.Fprintf(w, "                 Period: %s\n", e.Slot.Date)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d events | %s\n", result.Total, result.Filter)
	return nil
}

func writeLocationsText(w io.Writer, result *LocationsResult, verbose bool) error {
	if len(result.Locations) == 0 {
		fmt.Fprintln(w, "No locations found.")
		return nil
	}

	for _, l := range result.Locations {
		fmt.Fprintf(w, "%s (%d %s)\n", l.Name, len(l.Courses), plural(len(l.Courses), "course", "courses"))
		if verbose {
			fmt.Fprintf(w, "  URL: %s\n", l.URL)
			fmt.Fprintf(w, "  Position: %.5f, %.5f\n", l.Latitude, l.Longitude)
			for _, name := range l.Courses {
				fmt.Fprintf(w, "  - %s\n", name)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d locations\n", len(result.Locations))
	return nil
}

// slotTime renders the parsed time, or the raw strings for free-text times
func slotTime(s *course.Slot) string {
	if s.Time == nil {
		return strings.TrimSpace(s.DayRaw + " " + s.TimeRaw)
	}
	return fmt.Sprintf("%s %s-%s", s.Time.Day, course.FormatClock(s.Time.Start), course.FormatClock(s.Time.End))
}

// slotLine summarizes a slot: name, venue, prices and booking status
func slotLine(s *course.Slot) string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.Location != nil {
		fmt.Fprintf(&b, " @ %s", s.Location.Name)
	}
	if len(s.Prices) > 0 {
		prices := make([]string, len(s.Prices))
		for i, p := range s.Prices {
			prices[i] = formatPrice(p)
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(prices, " / "))
	}
	if s.Bookable != "" {
		fmt.Fprintf(&b, " [%s]", s.Bookable)
	}
	return b.String()
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f €", p)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
