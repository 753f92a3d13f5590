package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/store"
	"github.com/natter-io/natter/internal/ui/components"
)

// PrefsEditView edits the local notification preferences for a channel.
// These are client-side only and never leave the state store.
type PrefsEditView struct {
	ui          *UIManager
	mainFlex    *tview.Flex
	form        *tview.Form
	infoView    *tview.TextView
	channelName string
	prefs       store.Prefs
}

// NewPrefsEditView creates a new preferences edit view.
func NewPrefsEditView(ui *UIManager) *PrefsEditView {
	view := &PrefsEditView{
		ui: ui,
	}

	view.buildUI()
	view.setupKeybindings()

	return view
}

func (v *PrefsEditView) buildUI() {
	v.form = tview.NewForm()
	v.form.SetBorder(true).
		SetTitle(" Notification Preferences ").
		SetTitleAlign(tview.AlignCenter)

	v.infoView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	v.infoView.SetBorder(true).
		SetTitle(" About ").
		SetTitleAlign(tview.AlignCenter)
	v.infoView.SetText(
		"[yellow]Muted:[white] no notifications at all for this channel.\n\n" +
			"[yellow]Mention Only:[white] only notify when your username appears in the message.\n\n" +
			"[gray]Preferences are stored locally per profile and do not affect other clients.[white]")

	v.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.form, 0, 1, true).
		AddItem(v.infoView, 0, 1, false)
}

func (v *PrefsEditView) setupKeybindings() {
	v.mainFlex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			v.ui.ShowChannelList()
			return nil
		}
		return event
	})
}

// SetChannel loads the channel's preferences for editing.
func (v *PrefsEditView) SetChannel(channelName string) {
	v.channelName = channelName
	v.form.SetTitle(fmt.Sprintf(" Notification Preferences: #%s ", channelName))

	prefs, err := v.ui.store.ChannelPrefs(channelName)
	if err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to load preferences: %v", err))
		return
	}
	v.prefs = prefs
	v.buildForm()
}

func (v *PrefsEditView) buildForm() {
	v.form.Clear(true)

	v.form.AddCheckbox("Muted", v.prefs.Muted, func(checked bool) {
		v.prefs.Muted = checked
	})
	v.form.AddCheckbox("Mention Only", v.prefs.MentionOnly, func(checked bool) {
		v.prefs.MentionOnly = checked
	})

	v.form.AddButton("[ Save ]", func() {
		v.save()
	})
	v.form.AddButton("[ Cancel ]", func() {
		v.ui.ShowChannelList()
	})
}

func (v *PrefsEditView) save() {
	if err := v.ui.store.SavePrefs(v.channelName, v.prefs); err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to save preferences: %v", err))
		return
	}

	modal := components.InfoModal(v.ui.theme, "Preferences Saved",
		fmt.Sprintf("Notification preferences for '#%s' saved.", v.channelName),
		func() {
			v.ui.CloseModal()
			v.ui.ShowChannelList()
		})
	v.ui.ShowModal(modal)
}

// Show shows the preferences view.
func (v *PrefsEditView) Show() {
	v.ui.currentPage = "prefs-edit"
	v.ui.pages.SwitchToPage("prefs-edit")
	v.ui.app.SetFocus(v.form)
	v.ui.footer.Update("Tab: Navigate  Enter: Toggle/Select  Esc: Cancel")
}

// GetPrimitive returns the primitive for this view.
func (v *PrefsEditView) GetPrimitive() tview.Primitive {
	return v.mainFlex
}
