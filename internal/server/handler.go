package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/unisport/internal/calendar"
	"github.com/pfrederiksen/unisport/internal/catalog"
	"github.com/pfrederiksen/unisport/internal/filter"
	"github.com/pfrederiksen/unisport/internal/logger"
)

// Handler serves the catalog endpoints
type Handler struct {
	catalog *catalog.Catalog
	limiter *rate.Limiter
	now     func() time.Time
}

// NewHandler creates a Handler allowing one reload per reloadInterval
func NewHandler(cat *catalog.Catalog, reloadInterval time.Duration) *Handler {
	return &Handler{
		catalog: cat,
		limiter: rate.NewLimiter(rate.Every(reloadInterval), 1),
		now:     time.Now,
	}
}

// Health reports whether the catalog has loaded and whether that failed
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Loaded: h.catalog.Loaded(),
		Error:  h.catalog.Failed(),
	})
}

// Metrics returns the counters, gauges and timings recorded so far
func (h *Handler) Metrics(c *gin.Context) {
	snapshot := logger.GetMetricsSnapshot()
	resp := MetricsResponse{}
	resp.Counters, _ = snapshot["counters"].(map[string]int64)
	resp.Gauges, _ = snapshot["gauges"].(map[string]float64)
	resp.Timings, _ = snapshot["timings"].(map[string]map[string]interface{})
	c.JSON(http.StatusOK, resp)
}

// ListCourses returns a page of the filtered, deduplicated courses
func (h *Handler) ListCourses(c *gin.Context) {
	var req ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	page := h.catalog.Page()
	if req.Page != nil {
		page = *req.Page
	}

	courses := h.catalog.FilteredCourses()
	size := h.catalog.PageSize()
	c.JSON(http.StatusOK, NewPageResponse(catalog.Paginate(courses, page, size), page, size, len(courses)))
}

// GetCourse returns one course with all its slots
func (h *Handler) GetCourse(c *gin.Context) {
	var req CourseByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	crs, err := h.catalog.Course(req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, crs)
}

// CourseCalendar exports the timed slots of a course as iCalendar
func (h *Handler) CourseCalendar(c *gin.Context) {
	var req CourseByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	crs, err := h.catalog.Course(req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	ics, err := calendar.GenerateICS(crs, h.now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+crs.ID+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// ListEvents returns the filtered events
func (h *Handler) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, newEventResponses(h.catalog.FilteredEvents()))
}

// ListLocations returns all venues
func (h *Handler) ListLocations(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Locations())
}

// LocationEvents returns the filtered events grouped by venue URL
func (h *Handler) LocationEvents(c *gin.Context) {
	groups := h.catalog.FilteredEventsByLocation()
	resp := make(map[string][]EventResponse, len(groups))
	for url, events := range groups {
		resp[url] = newEventResponses(events)
	}
	c.JSON(http.StatusOK, resp)
}

// GetFilters returns the filter state
func (h *Handler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Filters())
}

// PutFilters replaces the filter state and resets the page cursor
func (h *Handler) PutFilters(c *gin.Context) {
	f := filter.NewFilter()
	if err := c.ShouldBindJSON(f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.catalog.SetFilters(f); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.catalog.Filters())
}

// GetSelection returns the highlighted and selected course IDs
func (h *Handler) GetSelection(c *gin.Context) {
	highlighted, selected := h.catalog.Selection()
	c.JSON(http.StatusOK, SelectionResponse{Highlighted: highlighted, Selected: selected})
}

// PutSelection updates the highlighted and/or selected course
func (h *Handler) PutSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if req.Highlighted != nil {
		if err := h.catalog.Highlight(*req.Highlighted); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Selected != nil {
		if err := h.catalog.Select(*req.Selected); err != nil {
			respondError(c, err)
			return
		}
	}

	h.GetSelection(c)
}

// Reload runs a fresh load. A client disconnect does not abort it.
func (h *Handler) Reload(c *gin.Context) {
	if !h.limiter.Allow() {
		respondError(c, NewAppError(http.StatusTooManyRequests, "reload rate limit exceeded"))
		return
	}

	if err := h.catalog.Load(context.WithoutCancel(c.Request.Context())); err != nil {
		respondError(c, WrapAppError(err, http.StatusBadGateway, "catalog load failed"))
		return
	}

	resp := ReloadResponse{
		Courses:   len(h.catalog.Courses()),
		Locations: len(h.catalog.Locations()),
		Added:     []string{},
		Removed:   []string{},
	}
	if changes := h.catalog.Changes(); changes != nil {
		for _, crs := range changes.Added {
			resp.Added = append(resp.Added, crs.ID)
		}
		for _, crs := range changes.Removed {
			resp.Removed = append(resp.Removed, crs.ID)
		}
	}
	c.JSON(http.StatusOK, resp)
}
