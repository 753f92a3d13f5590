package components

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/theme"
)

// Avatar renders a channel or user as a colored initials block. The color
// is the theme's stable accent hash for the name, so the same entity is
// tinted identically everywhere. Click invokes the configured callback.
type Avatar struct {
	*tview.TextView
	onTap func()
}

// NewAvatar creates an avatar for name. onTap may be nil.
func NewAvatar(name string, th *theme.Theme, onTap func()) *Avatar {
	a := &Avatar{
		TextView: tview.NewTextView().SetTextAlign(tview.AlignCenter),
		onTap:    onTap,
	}
	a.SetText(Initials(name))
	a.SetTextColor(th.BannerText)
	a.SetBackgroundColor(th.UserColor(name))

	a.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action == tview.MouseLeftClick {
			a.tap()
			return action, nil
		}
		return action, event
	})
	return a
}

func (a *Avatar) tap() {
	if a.onTap != nil {
		a.onTap()
	}
}

// Initials derives the avatar text from a display name: the first rune of
// the first two words, uppercased. Separators common in channel names
// count as word breaks.
func Initials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	})
	if len(words) == 0 {
		return "?"
	}

	var b strings.Builder
	for i, w := range words {
		if i == 2 {
			break
		}
		b.WriteString(strings.ToUpper(string([]rune(w)[0])))
	}
	return b.String()
}
