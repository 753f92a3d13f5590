package components

import (
	"strings"
	"testing"

	"github.com/natter-io/natter/internal/theme"
)

func TestBackButtonPress(t *testing.T) {
	presses := 0
	b := NewBackButton(theme.Get(theme.NameDefault), func() { presses++ })
	b.press()
	if presses != 1 {
		t.Errorf("presses = %d, want 1", presses)
	}

	// Nil callback must not panic
	NewBackButton(theme.Get(theme.NameDefault), nil).press()
}

func TestBackButtonUnreadBadge(t *testing.T) {
	b := NewBackButton(theme.Get(theme.NameDefault), nil)

	if b.Unread() != 0 {
		t.Errorf("initial Unread() = %d, want 0", b.Unread())
	}

	b.SetUnread(7)
	if b.Unread() != 7 {
		t.Errorf("Unread() = %d, want 7", b.Unread())
	}
	if !strings.Contains(b.GetText(false), "7") {
		t.Error("badge text should show the unread count")
	}

	b.SetUnread(0)
	if strings.Contains(b.GetText(false), "0") {
		t.Error("zero unread should hide the badge")
	}
}

func TestBadgeText(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1"},
		{42, "42"},
		{99, "99"},
		{100, "99+"},
		{12345, "99+"},
	}

	for _, tt := range tests {
		if got := badgeText(tt.n); got != tt.want {
			t.Errorf("badgeText(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
