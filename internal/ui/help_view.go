package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// HelpView displays keybinding help
type HelpView struct {
	ui       *UIManager
	textView *tview.TextView
}

// NewHelpView creates a new help view
func NewHelpView(ui *UIManager) *HelpView {
	view := &HelpView{
		ui: ui,
	}

	view.textView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetText(view.getHelpText())

	view.textView.SetBorder(true).
		SetTitle(" Natter Keybindings - Press Esc to close ").
		SetTitleAlign(tview.AlignCenter)

	view.setupKeybindings()

	return view
}

func (v *HelpView) getHelpText() string {
	return `
[yellow]Global Keybindings[white]
  Ctrl+C     Quit application
  ?          Show this help
  c          Switch to profile selection
  Esc        Go back / Cancel

[yellow]Profile Selection View[white]
  ↑/↓, j/k   Navigate profiles
  Enter      Connect to selected profile
  a          Add profile
  x          Remove profile
  q          Quit

[yellow]Channel List View[white]
  ↑/↓, j/k   Navigate channels
  Enter      Open conversation
  /          Filter channels
  i          Channel info and member roster
  d          Describe channel
  n          New channel
  e          Edit channel settings
  o          Notification preferences
  s          Search messages
  g          Activity graphs (G: server-wide)
  x          Delete channel (with confirmation)
  r          Refresh
  Esc        Back to profile selection

[yellow]Conversation View[white]
  Enter      Send message
  Esc        Back to channel list (draft is saved)
  Mouse      Click the title to open channel info

[yellow]Channel Info View[white]
  ↑/↓, j/k   Navigate members
  Enter      View member details
  m          Open conversation
  d          Describe channel
  e          Edit channel settings
  Esc        Back to channel list

[yellow]Search View[white]
  Tab        Navigate form fields
  Enter      Open selected result
  Esc        Back

[yellow]Activity Graphs (g)[white]
  1/6/2      Time range 1h / 6h / 24h
  r          Refresh
  Esc        Back to channel list

[yellow]Tips[white]
  • Use --read-only flag to browse without sending
  • Press 'r' to manually refresh any view
  • Views auto-refresh every 2 seconds
  • Drafts and read positions are saved per profile
`
}

func (v *HelpView) setupKeybindings() {
	v.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			v.ui.CloseModal()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				v.ui.CloseModal()
				return nil
			}
		}
		return event
	})
}

// GetPrimitive returns the primitive for this view
func (v *HelpView) GetPrimitive() tview.Primitive {
	return v.textView
}
