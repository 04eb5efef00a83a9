package filter

import (
	"errors"
	"testing"

	"github.com/pfrederiksen/unisport/internal/course"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		input     string
		wantDay   string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"Mo", "Mo", "", "", false},
		{"Mo 18:00-20:00", "Mo", "18:00", "20:00", false},
		{"  Sa 9:00 - 12:30 ", "Sa", "09:00", "12:30", false},
		{"17:00-20:00", course.AllDays, "17:00", "20:00", false},
		{"Fr 17:00-", "Fr", "17:00", "", false},
		{"Fr -20:00", "Fr", "", "20:00", false},
		{"", "", "", "", true},
		{"Monday", "", "", "", true},
		{"Mo 18:00", "", "", "", true},
		{"Mo -", "", "", "", true},
		{"Mo 25:00-26:00", "", "", "", true},
		{"Mo 18:00-x", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			day, start, end, err := ParseWindow(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseWindow(%q) expected error, got day=%q start=%q end=%q", tt.input, day, start, end)
				}
				if !errors.Is(err, ErrInvalidFilter) {
					t.Errorf("error %v should wrap ErrInvalidFilter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWindow(%q) unexpected error: %v", tt.input, err)
			}
			if day != tt.wantDay || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ParseWindow(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.input, day, start, end, tt.wantDay, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
