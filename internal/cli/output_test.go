package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pfrederiksen/unisport/internal/course"
)

func TestSlotTime(t *testing.T) {
	timed := &course.Slot{Time: &course.TimeSlot{Day: course.Tuesday, Start: 510, End: 600}}
	if got := slotTime(timed); got != "Di 08:30-10:00" {
		t.Errorf("slotTime() = %q", got)
	}

	free := &course.Slot{DayRaw: "Mi", TimeRaw: "nach Absprache"}
	if got := slotTime(free); got != "Mi nach Absprache" {
		t.Errorf("slotTime() = %q", got)
	}

	if got := slotTime(&course.Slot{}); got != "" {
		t.Errorf("slotTime() = %q, want empty", got)
	}
}

func TestWriteCourses_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCourses(&buf, &CoursesResult{Page: 1, PageSize: 50}, FormatText, false); err != nil {
		t.Fatalf("WriteCourses() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No courses found.") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	if err := WriteCourses(&buf, &CoursesResult{Page: 1, PageSize: 50}, FormatJSON, false); err != nil {
		t.Fatalf("WriteCourses() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if courses, ok := decoded["courses"].([]any); !ok || len(courses) != 0 {
		t.Errorf("courses = %v, want empty array", decoded["courses"])
	}
}

func TestWriteCourses_Verbose(t *testing.T) {
	hall := &course.Location{Name: "Halle A"}
	result := &CoursesResult{
		Page:     1,
		PageSize: 1,
		Total:    2,
		Filter:   "No active filters",
		Courses: []*course.Course{{
			ID:   "abcd1234",
			Name: "Yoga",
			URL:  "https://www.tu-sport.de/yoga.html",
			Slots: []*course.Slot{
				{Name: "Yoga 1", Location: hall, Prices: []float64{10}, Bookable: course.Bookable},
			},
		}},
	}

	var buf bytes.Buffer
	if err := WriteCourses(&buf, result, FormatText, true); err != nil {
		t.Fatalf("WriteCourses() error = %v", err)
	}

	for _, want := range []string{
		"abcd1234  Yoga ab 10.00 € (1 slot)",
		"URL: https://www.tu-sport.de/yoga.html",
		"Locations: Halle A",
		"- Yoga 1 @ Halle A (10.00 €) [bookable]",
		"Page 1 of 2 (Total: 2 courses) | No active filters",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, &EventsResult{}, OutputFormat("xml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
}
