package course

import (
	"regexp"
	"testing"

	"pgregory.net/rapid"
)

func TestShortHash(t *testing.T) {
	// sha256("abc") = ba7816bf8f01cfea...
	if got := ShortHash("abc"); got != "ba7816bf" {
		t.Errorf("ShortHash(abc) = %q, want ba7816bf", got)
	}
	// sha256("") = e3b0c442...
	if got := ShortHash(""); got != "e3b0c442" {
		t.Errorf("ShortHash(\"\") = %q, want e3b0c442", got)
	}
}

func TestShortHash_Deterministic(t *testing.T) {
	hexID := regexp.MustCompile(`^[0-9a-f]{8}$`)

	rapid.Check(t, func(t *rapid.T) {
		url := rapid.String().Draw(t, "url")

		first := ShortHash(url)
		second := ShortHash(url)
		if first != second {
			t.Fatalf("ShortHash(%q) not deterministic: %q vs %q", url, first, second)
		}
		if !hexID.MatchString(first) {
			t.Fatalf("ShortHash(%q) = %q, want 8 hex characters", url, first)
		}
	})
}

func TestSlotID(t *testing.T) {
	if got := SlotID("ba7816bf", 3); got != "ba7816bf-3" {
		t.Errorf("SlotID() = %q, want ba7816bf-3", got)
	}
}
