package components

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/theme"
)

// BackButton is the leading header control: an arrow glyph plus an unread
// badge counting messages waiting in other channels. Click or Enter
// invokes the configured callback.
type BackButton struct {
	*tview.TextView
	th      *theme.Theme
	onPress func()
	unread  int
}

// NewBackButton creates a back button. onPress may be nil.
func NewBackButton(th *theme.Theme, onPress func()) *BackButton {
	b := &BackButton{
		TextView: tview.NewTextView().SetDynamicColors(true),
		th:       th,
		onPress:  onPress,
	}
	b.render()

	b.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action == tview.MouseLeftClick {
			b.press()
			return action, nil
		}
		return action, event
	})
	b.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter {
			b.press()
			return nil
		}
		return event
	})
	return b
}

func (b *BackButton) press() {
	if b.onPress != nil {
		b.onPress()
	}
}

// SetUnread updates the badge. Zero hides it.
func (b *BackButton) SetUnread(n int) {
	b.unread = n
	b.render()
}

// Unread returns the current badge value.
func (b *BackButton) Unread() int {
	return b.unread
}

func (b *BackButton) render() {
	if b.unread > 0 {
		b.SetText(fmt.Sprintf(" [#%06x]←[-] [#%06x]%s[-]",
			b.th.Title.Hex(), b.th.Accent.Hex(), badgeText(b.unread)))
		return
	}
	b.SetText(fmt.Sprintf(" [#%06x]←[-]", b.th.Title.Hex()))
}

// badgeText caps the displayed count so the badge never widens the
// leading column.
func badgeText(n int) string {
	if n > 99 {
		return "99+"
	}
	return fmt.Sprintf("%d", n)
}
