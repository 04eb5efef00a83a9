// Package catalog owns the loaded course catalog and the views derived from it.
//
// A Catalog is an explicit service object: it is constructed empty, populated
// by Load and read through accessors. The only writers are Load and the
// filter, page and selection setters. Derived views (filtered events,
// deduplicated courses, location buckets) are computed on first read and
// dropped whenever the courses or the filters change.
//
// Load never returns partial data. When acquiring or normalizing fails the
// catalog is marked loaded and failed, holds no courses, and the persisted
// snapshot is cleared so the next load goes to the network.
//
// Example usage:
//
//	cat := catalog.New(gateway)
//	if err := cat.Load(ctx); err != nil {
//	    // cat.Loaded() && cat.Failed()
//	}
//	_ = cat.SetFilters(f)
//	page := cat.PaginatedCourses()
package catalog
