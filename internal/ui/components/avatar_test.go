package components

import (
	"testing"

	"github.com/natter-io/natter/internal/theme"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"general", "G"},
		{"dev-ops", "DO"},
		{"team_leads", "TL"},
		{"a.b.c", "AB"},
		{"Alice Smith", "AS"},
		{"élan", "É"},
		{"", "?"},
		{"---", "?"},
	}

	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAvatarTap(t *testing.T) {
	taps := 0
	a := NewAvatar("general", theme.Get(theme.NameDefault), func() { taps++ })
	a.tap()
	if taps != 1 {
		t.Errorf("taps = %d, want 1", taps)
	}

	// Nil callback must not panic
	NewAvatar("general", theme.Get(theme.NameDefault), nil).tap()
}

func TestAvatarStableColor(t *testing.T) {
	th := theme.Get(theme.NameDefault)
	if th.UserColor("ava") != th.UserColor("ava") {
		t.Error("same name should always map to the same color")
	}
}
