package course

import (
	"sort"
	"strings"
)

// DiffResult lists the courses that appeared or disappeared between two loads
type DiffResult struct {
	Added     []*Course              `json:"added"`
	Removed   []*Course              `json:"removed"`
	Providers map[Provider][]*Course `json:"providers"` // added courses grouped by provider
}

// IsEmpty reports whether the two loads held the same course IDs
func (d *DiffResult) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff compares course IDs of the previous and current load.
// A nil previous means everything is new.
func Diff(previous, current []*Course) *DiffResult {
	result := &DiffResult{
		Added:     make([]*Course, 0),
		Removed:   make([]*Course, 0),
		Providers: make(map[Provider][]*Course),
	}

	before := make(map[string]bool, len(previous))
	for _, c := range previous {
		before[c.ID] = true
	}
	now := make(map[string]bool, len(current))
	for _, c := range current {
		now[c.ID] = true
	}

	for _, c := range current {
		if before[c.ID] {
			continue
		}
		// Guard against hash collisions listing a course twice
		before[c.ID] = true
		result.Added = append(result.Added, c)
		result.Providers[c.Provider] = append(result.Providers[c.Provider], c)
	}
	for _, c := range previous {
		if !now[c.ID] {
			now[c.ID] = true
			result.Removed = append(result.Removed, c)
		}
	}

	// Sort for consistent output
	sortByProviderName(result.Added)
	sortByProviderName(result.Removed)
	for p := range result.Providers {
		sortByProviderName(result.Providers[p])
	}

	return result
}

func sortByProviderName(courses []*Course) {
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Provider != courses[j].Provider {
			return courses[i].Provider < courses[j].Provider
		}
		return strings.ToLower(courses[i].Name) < strings.ToLower(courses[j].Name)
	})
}
