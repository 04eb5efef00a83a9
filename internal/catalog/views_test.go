package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/pfrederiksen/unisport/internal/course"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int
	}{
		{"first page", 0, 2, []int{0, 1}},
		{"second page", 1, 2, []int{2, 3}},
		{"short last page", 2, 2, []int{4}},
		{"past the end", 3, 2, []int{}},
		{"far past the end", 1000, 50, []int{}},
		{"negative page", -1, 2, []int{}},
		{"zero size", 0, 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(items, tt.page, tt.pageSize))
		})
	}
}

func TestPaginate_AppendDoesNotClobber(t *testing.T) {
	items := []int{0, 1, 2, 3}
	page := Paginate(items, 0, 2)
	_ = append(page, 99)
	assert.Equal(t, []int{0, 1, 2, 3}, items)
}

func TestUniqueCourses(t *testing.T) {
	a := &course.Course{ID: "a"}
	b := &course.Course{ID: "b"}
	events := []*course.Event{{Course: b}, {Course: a}, {Course: b}, {Course: a}}

	assert.Equal(t, []*course.Course{b, a}, UniqueCourses(events))
	assert.Empty(t, UniqueCourses(nil))
}

func TestUniqueCourses_CollidingIDsKeepFirst(t *testing.T) {
	first := &course.Course{ID: "deadbeef", Name: "Yoga"}
	twin := &course.Course{ID: "deadbeef", Name: "Tango"}
	events := []*course.Event{{Course: first}, {Course: twin}}

	assert.Equal(t, []*course.Course{first}, UniqueCourses(events))
}

func genEvents(t *rapid.T) []*course.Event {
	venues := []*course.Location{
		nil,
		{Name: "Halle", URL: "https://example.org/halle"},
		{Name: "Bad", URL: "https://example.org/bad"},
	}
	nCourses := rapid.IntRange(0, 30).Draw(t, "courses")
	var courses []*course.Course
	for i := 0; i < nCourses; i++ {
		c := &course.Course{ID: fmt.Sprintf("c%d", i)}
		nSlots := rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("slots-%d", i))
		for j := 0; j < nSlots; j++ {
			c.Slots = append(c.Slots, &course.Slot{
				ID:       course.SlotID(c.ID, j),
				Location: rapid.SampledFrom(venues).Draw(t, fmt.Sprintf("venue-%d-%d", i, j)),
			})
		}
		courses = append(courses, c)
	}
	return course.Events(courses)
}

// Concatenated pages reproduce the list and never share a course
func TestPaginate_Pages(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		courses := UniqueCourses(genEvents(t))
		size := rapid.IntRange(1, 10).Draw(t, "size")
		pages := rapid.IntRange(0, 8).Draw(t, "pages")

		var joined []*course.Course
		seen := make(map[string]int)
		for p := 0; p < pages; p++ {
			for _, c := range Paginate(courses, p, size) {
				if prev, dup := seen[c.ID]; dup {
					t.Fatalf("course %s on pages %d and %d", c.ID, prev, p)
				}
				seen[c.ID] = p
				joined = append(joined, c)
			}
		}

		want := courses[:min(pages*size, len(courses))]
		if len(joined) != len(want) {
			t.Fatalf("pages 0..%d hold %d courses, want %d", pages-1, len(joined), len(want))
		}
		for i := range want {
			if joined[i] != want[i] {
				t.Fatalf("position %d: got %s, want %s", i, joined[i].ID, want[i].ID)
			}
		}
	})
}

// The buckets partition exactly the events that have a venue
func TestGroupByLocation_Union(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		events := genEvents(t)
		groups := GroupByLocation(events)

		total := 0
		for url, bucket := range groups {
			for _, e := range bucket {
				if e.Location == nil || e.Location.URL != url {
					t.Fatalf("event %s in bucket %s", e.Slot.ID, url)
				}
			}
			total += len(bucket)
		}

		located := 0
		for _, e := range events {
			if e.Location != nil {
				located++
			}
		}
		if total != located {
			t.Fatalf("buckets hold %d events, want %d", total, located)
		}
	})
}
