package cli

import (
	"slices"
	"sort"
	"strings"

	"github.com/pfrederiksen/unisport/internal/course"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortByName   SortOrder = "name"
	SortByDay    SortOrder = "day"
	SortByPrice  SortOrder = "price"
	SortProvider SortOrder = "provider"
)

func (o SortOrder) validForCourses() bool {
	return o == SortNone || o == SortByName || o == SortProvider || o == SortByPrice
}

func (o SortOrder) validForEvents() bool {
	return o == SortNone || o == SortByName || o == SortByDay || o == SortByPrice
}

// sortCourses returns a sorted copy of courses. SortNone keeps the order.
func sortCourses(courses []*course.Course, order SortOrder) []*course.Course {
	sorted := slices.Clone(courses)

	switch order {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	case SortProvider:
		sort.SliceStable(sorted, func(i, j int) bool {
			pi, pj := sorted[i].Provider, sorted[j].Provider
			if pi != pj {
				// Unknown providers last
				if pi == "" || pj == "" {
					return pj == ""
				}
				return pi < pj
			}
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	case SortByPrice:
		sort.SliceStable(sorted, func(i, j int) bool {
			pi, oki := sorted[i].MinPrice()
			pj, okj := sorted[j].MinPrice()
			return comparePrices(pi, oki, pj, okj)
		})
	}

	return sorted
}

// sortEvents returns a sorted copy of events. SortNone keeps the order.
func sortEvents(events []*course.Event, order SortOrder) []*course.Event {
	sorted := slices.Clone(events)

	switch order {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Course.Name) < strings.ToLower(sorted[j].Course.Name)
		})
	case SortByDay:
		sort.SliceStable(sorted, func(i, j int) bool {
			return compareByTime(sorted[i].Slot, sorted[j].Slot)
		})
	case SortByPrice:
		sort.SliceStable(sorted, func(i, j int) bool {
			pi, oki := firstPrice(sorted[i].Slot)
			pj, okj := firstPrice(sorted[j].Slot)
			return comparePrices(pi, oki, pj, okj)
		})
	}

	return sorted
}

// comparePrices orders cheaper first and unpriced last
func comparePrices(pi float64, oki bool, pj float64, okj bool) bool {
	if oki && okj {
		return pi < pj
	}
	return oki && !okj
}

func firstPrice(s *course.Slot) (float64, bool) {
	if len(s.Prices) == 0 {
		return 0, false
	}
	return s.Prices[0], true
}

// compareByTime orders slots by weekday then start time.
// Slots without a parsed time go last.
func compareByTime(i, j *course.Slot) bool {
	if i.Time == nil || j.Time == nil {
		return i.Time != nil && j.Time == nil
	}
	di, dj := dayIndex(i.Time.Day), dayIndex(j.Time.Day)
	if di != dj {
		return di < dj
	}
	return i.Time.Start < j.Time.Start
}

func dayIndex(d course.Day) int {
	return slices.Index(course.Days, d)
}
