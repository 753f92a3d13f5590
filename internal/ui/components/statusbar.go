package components

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/theme"
)

// StatusBar is the single application status line at the top of the
// screen: app name, active profile, connection dot and the read-only
// badge.
type StatusBar struct {
	*tview.TextView
	th *theme.Theme
}

// NewStatusBar creates the status bar.
func NewStatusBar(th *theme.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	return &StatusBar{TextView: tv, th: th}
}

// Update redraws the bar for the given profile and connection status.
func (s *StatusBar) Update(profile string, st chat.Status, readOnly bool) {
	readOnlyBadge := ""
	if readOnly {
		readOnlyBadge = fmt.Sprintf("  [#%06x][READ-ONLY][-]", s.th.Warning.Hex())
	}
	s.SetText(fmt.Sprintf(" [#%06x]natter[-]  [#%06x]%s[-]  %s%s",
		s.th.Accent.Hex(), s.th.Text.Hex(), profile, s.statusDot(st), readOnlyBadge))
}

// statusDot renders the connection state as a colored dot plus its name.
func (s *StatusBar) statusDot(st chat.Status) string {
	color := s.th.Danger
	switch st {
	case chat.StatusConnected:
		color = s.th.Success
	case chat.StatusConnecting:
		color = s.th.Warning
	}
	return fmt.Sprintf("[#%06x]●[-] %s", color.Hex(), st)
}
