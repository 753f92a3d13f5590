package components

import (
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/theme"
)

// Footer is the single keybinding hint line at the bottom of the screen.
type Footer struct {
	*tview.TextView
}

// NewFooter creates the footer.
func NewFooter(th *theme.Theme) *Footer {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetTextColor(th.Muted)
	return &Footer{TextView: tv}
}

// Update replaces the hint text for the active view.
func (f *Footer) Update(text string) {
	f.SetText(" " + text)
}
