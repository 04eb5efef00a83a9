package normalize

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/unisport/internal/course"
	"github.com/pfrederiksen/unisport/internal/source"
)

// hashWorkers bounds the number of concurrent ID computations
const hashWorkers = 16

// Locations converts the raw venue collection
func Locations(raw []source.RawLocation) []*course.Location {
	locations := make([]*course.Location, len(raw))
	for i, l := range raw {
		locations[i] = &course.Location{
			Name:      l.Name,
			Longitude: l.Lon,
			Latitude:  l.Lat,
			URL:       l.URL,
		}
	}
	return locations
}

// Normalize converts raw courses into domain courses, preserving input order.
// Slot venues are resolved against locations by exact name; when several
// venues share a name the first one wins. The only error is ctx cancellation.
func Normalize(ctx context.Context, raw []source.RawCourse, locations []*course.Location) ([]*course.Course, error) {
	byName := make(map[string]*course.Location, len(locations))
	for _, l := range locations {
		if _, exists := byName[l.Name]; !exists {
			byName[l.Name] = l
		}
	}

	courses := make([]*course.Course, len(raw))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(hashWorkers)
	for i := range raw {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			courses[i] = normalizeCourse(&raw[i], byName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return courses, nil
}

func normalizeCourse(rc *source.RawCourse, locations map[string]*course.Location) *course.Course {
	c := &course.Course{
		ID:              course.ShortHash(rc.URL),
		Name:            rc.Name,
		URL:             rc.URL,
		Description:     rc.Description,
		DescriptionText: PlainText(rc.Description),
		Slots:           make([]*course.Slot, 0, len(rc.Slots)),
	}

	if provider, ok := course.ProviderForURL(rc.URL); ok {
		c.Provider = provider
	}

	for i := range rc.Slots {
		rs := &rc.Slots[i]
		// Rows without a name are cancelled or placeholders
		if rs.Name == nil {
			continue
		}
		c.Slots = append(c.Slots, normalizeSlot(rs, course.SlotID(c.ID, len(c.Slots)), locations))
	}

	return c
}

func normalizeSlot(rs *source.RawSlot, id string, locations map[string]*course.Location) *course.Slot {
	slot := &course.Slot{
		ID:       id,
		Name:     *rs.Name,
		Prices:   course.ParsePrices(rs.Price),
		Location: locations[rs.Place],
		Time:     course.ParseTimeSlot(rs.Day, rs.Time),
		Date:     rs.Timeframe,
	}

	if status, ok := course.LookupBookingStatus(rs.Bookable); ok {
		slot.Bookable = status
	}
	if rs.Day != nil {
		slot.DayRaw = *rs.Day
	}
	if rs.Time != nil {
		slot.TimeRaw = *rs.Time
	}

	return slot
}

// PlainText strips HTML markup from a provider description and collapses
// whitespace. Text without markup is returned with whitespace collapsed.
func PlainText(description string) string {
	if !strings.ContainsAny(description, "<&") {
		return strings.Join(strings.Fields(description), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return strings.Join(strings.Fields(description), " ")
	}
	doc.Find("script, style").Remove()

	// Keep block boundaries as word boundaries
	doc.Find("br, p, div, li, h1, h2, h3, h4, tr").Each(func(i int, sel *goquery.Selection) {
		sel.AfterHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " ")
}
