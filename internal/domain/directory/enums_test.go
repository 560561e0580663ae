package directory

import (
	"testing"

	"github.com/tahoak/park-collective/internal/httperr"
)

func TestParseEntityStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "ACTIVE", "INACTIVE"} {
		if _, err := ParseEntityStatus(s); err != nil {
			t.Fatalf("ParseEntityStatus(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseEntityStatus("active"); !httperr.IsBusiness(err, "invalid_status") {
		t.Fatalf("expected invalid_status for lowercase value, got %v", err)
	}
}

func TestTagCategoryNeedsVerification(t *testing.T) {
	cases := map[TagCategory]bool{
		TagIdentity:     false,
		TagFriendliness: true,
		TagAmenity:      false,
	}
	for c, want := range cases {
		if got := c.NeedsVerification(); got != want {
			t.Errorf("%s.NeedsVerification() = %v, want %v", c, got, want)
		}
	}
}

func TestIsImageSlot(t *testing.T) {
	if !IsImageSlot("logo") || !IsImageSlot("gallery6") {
		t.Fatal("expected known slots to be accepted")
	}
	if IsImageSlot("gallery7") || IsImageSlot("") {
		t.Fatal("expected unknown slots to be rejected")
	}
}
