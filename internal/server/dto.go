package server

import (
	"github.com/pfrederiksen/unisport/internal/course"
)

// PageResponse is the standard wrapper for list endpoints.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse is a helper to quickly create a response
func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	// Handle empty slice to avoid JSON outputting null
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}

// MetricsResponse is the process-wide metrics snapshot
type MetricsResponse struct {
	Counters map[string]int64                  `json:"counters"`
	Gauges   map[string]float64                `json:"gauges"`
	Timings  map[string]map[string]interface{} `json:"timings"`
}

// HealthResponse reports the load state
type HealthResponse struct {
	Loaded bool `json:"loaded"`
	Error  bool `json:"error"`
}

// ListCoursesRequest selects a page; the catalog's cursor is used when absent
type ListCoursesRequest struct {
	Page *int `form:"page" binding:"omitempty,min=0"`
}

// CourseByIDRequest binds the :id path parameter
type CourseByIDRequest struct {
	ID string `uri:"id" binding:"required"`
}

// EventResponse is one course slot without the full course
type EventResponse struct {
	CourseID   string          `json:"course_id"`
	CourseName string          `json:"course_name"`
	CourseURL  string          `json:"course_url"`
	Provider   course.Provider `json:"provider,omitempty"`
	Slot       *course.Slot    `json:"slot"`
}

// NewEventResponse flattens an event
func NewEventResponse(e *course.Event) EventResponse {
	return EventResponse{
		CourseID:   e.Course.ID,
		CourseName: e.Course.Name,
		CourseURL:  e.Course.URL,
		Provider:   e.Course.Provider,
		Slot:       e.Slot,
	}
}

func newEventResponses(events []*course.Event) []EventResponse {
	items := make([]EventResponse, len(events))
	for i, e := range events {
		items[i] = NewEventResponse(e)
	}
	return items
}

// SelectionRequest updates the highlighted and selected courses.
// Omitted fields are left unchanged; an empty string clears.
type SelectionRequest struct {
	Highlighted *string `json:"highlighted"`
	Selected    *string `json:"selected"`
}

// SelectionResponse holds the highlighted and selected course IDs
type SelectionResponse struct {
	Highlighted string `json:"highlighted"`
	Selected    string `json:"selected"`
}

// ReloadResponse summarizes a finished reload
type ReloadResponse struct {
	Courses   int      `json:"courses"`
	Locations int      `json:"locations"`
	Added     []string `json:"added"`   // IDs of courses new since the previous load
	Removed   []string `json:"removed"` // IDs of courses gone since the previous load
}
