package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/pfrederiksen/unisport/internal/course"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIndex returns a fixed ranking for any term
type stubIndex struct {
	ranked []*course.Course
	terms  []string
}

func (s *stubIndex) Search(term string) []*course.Course {
	s.terms = append(s.terms, term)
	return s.ranked
}

func timed(day course.Day, start, end string) *course.TimeSlot {
	s, err := course.ParseClock(start)
	if err != nil {
		panic(err)
	}
	e, err := course.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return &course.TimeSlot{Day: day, Start: s, End: e}
}

func fixtureEvents() (courses []*course.Course, events []*course.Event) {
	yoga := &course.Course{ID: "c1", Name: "Yoga"}
	yoga.Slots = []*course.Slot{
		{ID: "c1-0", Bookable: course.Bookable, Time: timed(course.Monday, "18:00", "19:30")},
		{ID: "c1-1", Bookable: course.Waitlist, Time: timed(course.Wednesday, "08:00", "09:00")},
	}
	swim := &course.Course{ID: "c2", Name: "Schwimmen"}
	swim.Slots = []*course.Slot{
		{ID: "c2-0", Bookable: course.Bookable, Time: timed(course.Monday, "07:00", "08:00")},
		{ID: "c2-1", Bookable: "", Time: nil},
	}
	late := &course.Course{ID: "c3", Name: "Nachtlauf"}
	late.Slots = []*course.Slot{
		// inverted range as found in provider data
		{ID: "c3-0", Bookable: course.Bookable, Time: timed(course.Friday, "22:00", "01:00")},
	}
	courses = []*course.Course{yoga, swim, late}
	return courses, course.Events(courses)
}

func slotIDs(events []*course.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.Slot.ID
	}
	return ids
}

func TestNewFilter_IsEmpty(t *testing.T) {
	f := NewFilter()
	assert.True(t, f.IsEmpty())
	assert.Equal(t, course.AllDays, f.Day)

	f.SearchTerm = "yo"
	assert.True(t, f.IsEmpty(), "short search terms are inactive")

	f.SearchTerm = "yog"
	assert.False(t, f.IsEmpty())
}

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, []course.BookingStatus{course.Bookable}, f.Bookable)
	assert.False(t, f.IsEmpty())
	assert.NoError(t, f.Validate())
}

func TestApply_AllSentinelsReturnsEverything(t *testing.T) {
	_, events := fixtureEvents()
	f := &Filter{Bookable: []course.BookingStatus{}, Day: course.AllDays, Start: "", End: ""}

	got := f.Apply(events, nil)
	assert.Equal(t, slotIDs(events), slotIDs(got))
}

func TestApply_Criteria(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "bookable only",
			filter: Filter{Bookable: []course.BookingStatus{course.Bookable}, Day: course.AllDays},
			want:   []string{"c1-0", "c2-0", "c3-0"},
		},
		{
			name:   "waitlist only",
			filter: Filter{Bookable: []course.BookingStatus{course.Waitlist}},
			want:   []string{"c1-1"},
		},
		{
			name:   "both statuses drop unknown status",
			filter: Filter{Bookable: []course.BookingStatus{course.Bookable, course.Waitlist}},
			want:   []string{"c1-0", "c1-1", "c2-0", "c3-0"},
		},
		{
			name:   "day",
			filter: Filter{Day: string(course.Monday)},
			want:   []string{"c1-0", "c2-0"},
		},
		{
			name:   "start bound is inclusive",
			filter: Filter{Day: course.AllDays, Start: "18:00"},
			want:   []string{"c1-0", "c3-0"},
		},
		{
			name:   "end bound is inclusive",
			filter: Filter{Day: course.AllDays, End: "08:00"},
			want:   []string{"c2-0"},
		},
		{
			name:   "end bound rejects inverted range starting after it",
			filter: Filter{Day: course.AllDays, End: "21:00"},
			want:   []string{"c1-0", "c1-1", "c2-0"},
		},
		{
			name:   "inverted range passes a late end bound",
			filter: Filter{Day: string(course.Friday), End: "23:00"},
			want:   []string{"c3-0"},
		},
		{
			name: "combined",
			filter: Filter{
				Bookable: []course.BookingStatus{course.Bookable},
				Day:      string(course.Monday),
				Start:    "17:00",
				End:      "20:00",
			},
			want: []string{"c1-0"},
		},
		{
			name:   "unparseable bound is inactive",
			filter: Filter{Day: course.AllDays, Start: "evening"},
			want:   []string{"c1-0", "c1-1", "c2-0", "c2-1", "c3-0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, events := fixtureEvents()
			got := tt.filter.Apply(events, nil)
			assert.Equal(t, tt.want, slotIDs(got))
		})
	}
}

func TestApply_MissingTimeFailsTimeCriteria(t *testing.T) {
	slot := &course.Slot{ID: "x-0", Bookable: course.Bookable}

	assert.True(t, NewFilter().MatchesSlot(slot))
	assert.True(t, DefaultFilter().MatchesSlot(slot))

	for _, f := range []*Filter{
		{Day: string(course.Monday)},
		{Day: course.AllDays, Start: "00:00"},
		{Day: course.AllDays, End: "24:00"},
	} {
		assert.False(t, f.MatchesSlot(slot), f.String())
	}
}

func TestApply_SearchRankOrder(t *testing.T) {
	courses, events := fixtureEvents()
	idx := &stubIndex{ranked: []*course.Course{courses[2], courses[0]}}

	f := NewFilter()
	f.SearchTerm = "  lauf yoga "

	got := f.Apply(events, idx)
	assert.Equal(t, []string{"c3-0", "c1-0", "c1-1"}, slotIDs(got))
	require.Len(t, idx.terms, 1)
}

func TestApply_ShortSearchTermSkipsIndex(t *testing.T) {
	_, events := fixtureEvents()
	idx := &stubIndex{}

	f := NewFilter()
	f.SearchTerm = "yo"

	got := f.Apply(events, idx)
	assert.Len(t, got, len(events))
	assert.Empty(t, idx.terms)
}

func TestApply_PaddedShortTermUsesIndex(t *testing.T) {
	_, events := fixtureEvents()
	idx := &stubIndex{}

	f := NewFilter()
	f.SearchTerm = "yo "

	got := f.Apply(events, idx)
	assert.Empty(t, got)
	assert.Equal(t, []string{"yo "}, idx.terms)
}

func TestApply_SearchWithNoMatches(t *testing.T) {
	_, events := fixtureEvents()

	f := NewFilter()
	f.SearchTerm = "xylophon"

	got := f.Apply(events, &stubIndex{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	_, events := fixtureEvents()
	before := slotIDs(events)

	DefaultFilter().Apply(events, nil)

	assert.Equal(t, before, slotIDs(events))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"empty", *NewFilter(), false},
		{"blank day", Filter{}, false},
		{"full", Filter{Bookable: []course.BookingStatus{course.Waitlist}, Day: "Sa", Start: "9:00", End: "12:30"}, false},
		{"unknown day", Filter{Day: "Monday"}, true},
		{"bad start", Filter{Start: "25:00"}, true},
		{"bad end", Filter{End: "12"}, true},
		{"unknown status", Filter{Bookable: []course.BookingStatus{"maybe"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFilter))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "No active filters", NewFilter().String())

	f := &Filter{
		SearchTerm: "yoga ",
		Bookable:   []course.BookingStatus{course.Bookable, course.Waitlist},
		Day:        "Mo",
		Start:      "17:00",
		End:        "20:00",
	}
	assert.Equal(t, "Search: yoga | Bookable: bookable, waitlist | Day: Montag | From: 17:00 | To: 20:00", f.String())

	parts := strings.Split(DefaultFilter().String(), " | ")
	assert.Equal(t, []string{"Bookable: bookable"}, parts)
}

func TestClone(t *testing.T) {
	f := DefaultFilter()
	f.Day = "Di"

	clone := f.Clone()
	assert.Equal(t, f, clone)

	clone.Bookable[0] = course.Waitlist
	clone.Day = "Mi"
	assert.Equal(t, course.Bookable, f.Bookable[0])
	assert.Equal(t, "Di", f.Day)
}
