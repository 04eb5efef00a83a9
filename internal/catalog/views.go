package catalog

import "github.com/pfrederiksen/unisport/internal/course"

// DefaultPageSize is the number of courses per page
const DefaultPageSize = 50

// Paginate returns the window of items starting at page*pageSize.
// Pages past the end, negative pages and non-positive sizes yield an empty slice.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 0 || pageSize <= 0 {
		return []T{}
	}
	offset := page * pageSize
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+pageSize, len(items))
	return items[offset:end:end]
}

// UniqueCourses projects events onto their courses, keeping the first
// occurrence of each course ID
func UniqueCourses(events []*course.Event) []*course.Course {
	seen := make(map[string]bool)
	courses := make([]*course.Course, 0)
	for _, e := range events {
		if seen[e.Course.ID] {
			continue
		}
		seen[e.Course.ID] = true
		courses = append(courses, e.Course)
	}
	return courses
}

// GroupByLocation buckets events by the URL of their venue, keeping event
// order within each bucket. Events without a venue are left out.
func GroupByLocation(events []*course.Event) map[string][]*course.Event {
	groups := make(map[string][]*course.Event)
	for _, e := range events {
		if e.Location == nil {
			continue
		}
		groups[e.Location.URL] = append(groups[e.Location.URL], e)
	}
	return groups
}
