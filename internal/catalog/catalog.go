package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/unisport/internal/course"
	"github.com/pfrederiksen/unisport/internal/filter"
	"github.com/pfrederiksen/unisport/internal/logger"
	"github.com/pfrederiksen/unisport/internal/normalize"
	"github.com/pfrederiksen/unisport/internal/search"
	"github.com/pfrederiksen/unisport/internal/source"
)

var (
	// ErrNotLoaded is returned while no load has completed successfully
	ErrNotLoaded = errors.New("catalog not loaded")

	// ErrCourseNotFound is returned for unknown course IDs
	ErrCourseNotFound = errors.New("course not found")

	// ErrInvalidPage is returned for negative page numbers
	ErrInvalidPage = errors.New("invalid page")
)

// Source supplies raw provider data, usually a *cache.Gateway
type Source interface {
	Acquire(ctx context.Context) (*source.Dataset, error)
	Invalidate(ctx context.Context) error
}

// IndexBuilder builds the search index of a load cycle
type IndexBuilder func(courses []*course.Course) search.Index

// Catalog holds the normalized courses of the last load, the filter state
// and the pagination and selection cursors. It is safe for concurrent use.
type Catalog struct {
	src        Source
	pageSize   int
	buildIndex IndexBuilder
	log        *logger.Logger

	// loading serializes Load calls
	loading sync.Mutex

	mu               sync.RWMutex
	loaded           bool
	failed           bool
	courses          []*course.Course
	byID             map[string]*course.Course
	locations        []*course.Location
	events           []*course.Event
	eventsByLocation map[string][]*course.Event
	index            search.Index
	filters          *filter.Filter
	page             int
	highlighted      string
	selected         string

	// lastGood survives failed loads so a recovery is diffed against real data
	lastGood []*course.Course
	changes  *course.DiffResult

	// views is nil until first read after a load or filter change
	views *views
}

// views are the filter-dependent derivations; immutable once built
type views struct {
	events     []*course.Event
	courses    []*course.Course
	byLocation map[string][]*course.Event
}

// Option configures a Catalog
type Option func(*Catalog)

// WithPageSize overrides DefaultPageSize
func WithPageSize(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the logger used for load diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(c *Catalog) {
		c.log = l
	}
}

// WithIndexBuilder replaces the fuzzy index
func WithIndexBuilder(b IndexBuilder) Option {
	return func(c *Catalog) {
		c.buildIndex = b
	}
}

// New creates an empty catalog with the default filter
func New(src Source, opts ...Option) *Catalog {
	c := &Catalog{
		src:      src,
		pageSize: DefaultPageSize,
		buildIndex: func(courses []*course.Course) search.Index {
			return search.Build(courses)
		},
		log:     logger.Default(),
		filters: filter.DefaultFilter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// loadResult is everything a successful load replaces
type loadResult struct {
	courses          []*course.Course
	byID             map[string]*course.Course
	locations        []*course.Location
	events           []*course.Event
	eventsByLocation map[string][]*course.Event
	index            search.Index
}

// Load acquires raw data, normalizes it and rebuilds the search index.
// On failure the catalog is emptied and marked failed, and the persisted
// snapshot is cleared unless ctx was cancelled. Concurrent calls run one after the other.
func (c *Catalog) Load(ctx context.Context) error {
	c.loading.Lock()
	defer c.loading.Unlock()

	log := c.log.With(logger.Fields{"load_id": uuid.NewString()})
	start := time.Now()
	log.Info("loading catalog", nil)

	result, err := c.build(ctx)
	logger.RecordTiming("catalog.load", time.Since(start))

	if err != nil {
		logger.IncrCounter("load.failure")
		log.Error("catalog load failed", nil, err)

		// A cancelled load says nothing about the snapshot, so it is kept
		if !errors.Is(err, context.Canceled) {
			if clearErr := c.src.Invalidate(context.WithoutCancel(ctx)); clearErr != nil {
				log.Warn("failed to clear snapshot", logger.Fields{"error": clearErr.Error()})
			}
		}

		c.mu.Lock()
		c.reset(&loadResult{})
		c.loaded = true
		c.failed = true
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	changes := course.Diff(c.lastGood, result.courses)
	c.reset(result)
	c.loaded = true
	c.failed = false
	c.lastGood = result.courses
	c.changes = changes
	c.mu.Unlock()

	logger.IncrCounter("load.success")
	if !changes.IsEmpty() {
		logger.IncrCounter("catalog.changed")
		log.Info("course offering changed", logger.Fields{
			"courses_added":   len(changes.Added),
			"courses_removed": len(changes.Removed),
		})
	}
	logger.SetGauge("catalog.courses", float64(len(result.courses)))
	logger.SetGauge("catalog.events", float64(len(result.events)))
	logger.SetGauge("catalog.locations", float64(len(result.locations)))
	log.Info("catalog loaded", logger.Fields{
		"courses":   len(result.courses),
		"events":    len(result.events),
		"locations": len(result.locations),
		"duration":  time.Since(start).String(),
	})

	return nil
}

func (c *Catalog) build(ctx context.Context) (*loadResult, error) {
	ds, err := c.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	locations := normalize.Locations(ds.Locations)
	courses, err := normalize.Normalize(ctx, ds.Courses, locations)
	if err != nil {
		return nil, fmt.Errorf("normalizing courses: %w", err)
	}

	byID := make(map[string]*course.Course, len(courses))
	for _, crs := range courses {
		// IDs are truncated hashes; on a collision the first course stays addressable
		if _, exists := byID[crs.ID]; !exists {
			byID[crs.ID] = crs
		}
	}

	events := course.Events(courses)

	return &loadResult{
		courses:          courses,
		byID:             byID,
		locations:        locations,
		events:           events,
		eventsByLocation: GroupByLocation(events),
		index:            c.buildIndex(courses),
	}, nil
}

// reset replaces the loaded data. Callers hold mu.
func (c *Catalog) reset(r *loadResult) {
	c.courses = r.courses
	c.byID = r.byID
	c.locations = r.locations
	c.events = r.events
	c.eventsByLocation = r.eventsByLocation
	c.index = r.index
	c.page = 0
	c.highlighted = ""
	c.selected = ""
	c.views = nil
}

// Loaded reports whether a load has finished, successfully or not
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Failed reports whether the last load failed
func (c *Catalog) Failed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failed
}

// Ready returns ErrNotLoaded unless the last load succeeded
func (c *Catalog) Ready() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || c.failed {
		return ErrNotLoaded
	}
	return nil
}

// Courses returns all courses in provider order. The slice must not be modified.
func (c *Catalog) Courses() []*course.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.courses
}

// Locations returns all venues in provider order
func (c *Catalog) Locations() []*course.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locations
}

// Events returns the unfiltered events
func (c *Catalog) Events() []*course.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.events
}

// EventsByLocation returns all events grouped by venue URL, ignoring filters
func (c *Catalog) EventsByLocation() map[string][]*course.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.eventsByLocation
}

// CoursesAtLocation returns the distinct courses with a slot at the venue
func (c *Catalog) CoursesAtLocation(url string) []*course.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return UniqueCourses(c.eventsByLocation[url])
}

// Changes returns the difference between the last two successful loads.
// It is nil before the first successful load.
func (c *Catalog) Changes() *course.DiffResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.changes
}

// Course looks up a course by its ID
func (c *Catalog) Course(id string) (*course.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || c.failed {
		return nil, ErrNotLoaded
	}
	crs, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
	}
	return crs, nil
}

// Filters returns a copy of the current filter state
func (c *Catalog) Filters() *filter.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters.Clone()
}

// SetFilters validates and replaces the filter state. The page is reset to 0.
func (c *Catalog) SetFilters(f *filter.Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = f.Clone()
	c.page = 0
	c.views = nil
	return nil
}

// PageSize returns the number of courses per page
func (c *Catalog) PageSize() int {
	return c.pageSize
}

// Page returns the pagination cursor
func (c *Catalog) Page() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// SetPage moves the pagination cursor. Pages past the end are allowed.
func (c *Catalog) SetPage(page int) error {
	if page < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
	return nil
}

// Highlight marks a course, e.g. on hover. An empty id clears it.
func (c *Catalog) Highlight(id string) error {
	return c.setCursor(&c.highlighted, id)
}

// Select marks the course shown in detail. An empty id clears it.
func (c *Catalog) Select(id string) error {
	return c.setCursor(&c.selected, id)
}

func (c *Catalog) setCursor(cursor *string, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != "" {
		if _, ok := c.byID[id]; !ok {
			return fmt.Errorf("%w: %s", ErrCourseNotFound, id)
		}
	}
	*cursor = id
	return nil
}

// Selection returns the highlighted and selected course IDs
func (c *Catalog) Selection() (highlighted, selected string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.highlighted, c.selected
}

// FilteredEvents returns the events passing the current filters
func (c *Catalog) FilteredEvents() []*course.Event {
	return c.derived().events
}

// FilteredCourses returns the distinct courses of FilteredEvents in first-seen order
func (c *Catalog) FilteredCourses() []*course.Course {
	return c.derived().courses
}

// FilteredEventsByLocation groups FilteredEvents by venue URL
func (c *Catalog) FilteredEventsByLocation() map[string][]*course.Event {
	return c.derived().byLocation
}

// PaginatedCourses returns the current page of FilteredCourses
func (c *Catalog) PaginatedCourses() []*course.Course {
	v := c.derived()
	return Paginate(v.courses, c.Page(), c.pageSize)
}

func (c *Catalog) derived() *views {
	c.mu.RLock()
	v := c.views
	c.mu.RUnlock()
	if v != nil {
		return v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.views == nil {
		events := c.filters.Apply(c.events, c.index)
		c.views = &views{
			events:     events,
			courses:    UniqueCourses(events),
			byLocation: GroupByLocation(events),
		}
	}
	return c.views
}
