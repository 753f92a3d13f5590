package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/ui/components"
)

// ChannelEditView edits a channel's topic and retention settings with a
// diff preview before anything is applied.
type ChannelEditView struct {
	ui             *UIManager
	mainFlex       *tview.Flex
	form           *tview.Form
	diffView       *tview.TextView
	channelName    string
	currentChannel *models.Channel

	topic      string
	maxMsgs    string
	maxBytes   string
	maxAge     string
	maxMsgSize string
	discard    string
}

// NewChannelEditView creates a new channel edit view.
func NewChannelEditView(ui *UIManager) *ChannelEditView {
	view := &ChannelEditView{
		ui: ui,
	}

	view.buildUI()
	view.setupKeybindings()

	return view
}

func (v *ChannelEditView) buildUI() {
	v.form = tview.NewForm()
	v.form.SetBorder(true).
		SetTitle(" Edit Channel Settings ").
		SetTitleAlign(tview.AlignCenter)

	v.diffView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(false)
	v.diffView.SetBorder(true).
		SetTitle(" Changes Preview ").
		SetTitleAlign(tview.AlignCenter)
	v.diffView.SetText("[gray]Make changes and click 'Preview' to see diff[white]")

	v.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.form, 0, 1, true).
		AddItem(v.diffView, 0, 1, false)
}

func (v *ChannelEditView) setupKeybindings() {
	v.mainFlex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			v.ui.ShowChannelDetail(v.channelName)
			return nil
		}
		return event
	})
}

// SetChannel loads the channel for editing.
func (v *ChannelEditView) SetChannel(channelName string) {
	v.channelName = channelName

	channel, err := v.ui.client.ChannelInfo(channelName)
	if err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to load channel: %v", err))
		return
	}

	v.currentChannel = channel
	v.loadCurrentValues()
	v.buildForm()
	v.diffView.SetText("[gray]Make changes and click 'Preview' to see diff[white]")
}

func (v *ChannelEditView) loadCurrentValues() {
	v.topic = v.currentChannel.Topic

	if v.currentChannel.Limits.MaxMessages <= 0 {
		v.maxMsgs = "unlimited"
	} else {
		v.maxMsgs = fmt.Sprintf("%d", v.currentChannel.Limits.MaxMessages)
	}

	if v.currentChannel.Limits.MaxBytes <= 0 {
		v.maxBytes = "unlimited"
	} else {
		v.maxBytes = formatBytesToString(uint64(v.currentChannel.Limits.MaxBytes))
	}

	if v.currentChannel.Limits.MaxAge == 0 {
		v.maxAge = "unlimited"
	} else {
		v.maxAge = formatDurationToString(v.currentChannel.Limits.MaxAge)
	}

	if v.currentChannel.Limits.MaxMsgSize <= 0 {
		v.maxMsgSize = "unlimited"
	} else {
		v.maxMsgSize = formatBytesToString(uint64(v.currentChannel.Limits.MaxMsgSize))
	}

	v.discard = strings.ToLower(v.currentChannel.Limits.Discard)
}

func (v *ChannelEditView) buildForm() {
	v.form.Clear(true)

	v.form.AddInputField("Topic", v.topic, 40, nil, func(text string) {
		v.topic = text
	})

	v.form.AddInputField("Max Messages", v.maxMsgs, 20, nil, func(text string) {
		v.maxMsgs = text
	})

	v.form.AddInputField("Max Bytes", v.maxBytes, 20, nil, func(text string) {
		v.maxBytes = text
	})

	v.form.AddInputField("Max Age", v.maxAge, 20, nil, func(text string) {
		v.maxAge = text
	})

	v.form.AddInputField("Max Msg Size", v.maxMsgSize, 20, nil, func(text string) {
		v.maxMsgSize = text
	})

	discardOpts := []string{"old", "new"}
	discardIdx := 0
	for i, opt := range discardOpts {
		if opt == v.discard {
			discardIdx = i
			break
		}
	}
	v.form.AddDropDown("Discard", discardOpts, discardIdx, func(option string, index int) {
		v.discard = option
	})

	v.form.AddButton("[ Preview Changes ]", func() {
		v.previewChanges()
	})

	v.form.AddButton("[ Apply Changes ]", func() {
		v.applyChanges()
	})

	v.form.AddButton("[ Cancel ]", func() {
		v.ui.ShowChannelDetail(v.channelName)
	})
}

func (v *ChannelEditView) parsedValues() (maxMsgs, maxBytes int64, maxAge time.Duration, maxMsgSize int32) {
	if strings.ToLower(v.maxMsgs) == "unlimited" {
		maxMsgs = -1
	} else {
		maxMsgs, _ = strconv.ParseInt(v.maxMsgs, 10, 64)
	}

	if strings.ToLower(v.maxBytes) == "unlimited" {
		maxBytes = -1
	} else {
		maxBytes = int64(parseByteString(v.maxBytes))
	}

	if strings.ToLower(v.maxAge) == "unlimited" {
		maxAge = 0
	} else {
		maxAge, _ = time.ParseDuration(v.maxAge)
	}

	if strings.ToLower(v.maxMsgSize) == "unlimited" {
		maxMsgSize = -1
	} else {
		maxMsgSize = int32(parseByteString(v.maxMsgSize))
	}
	return
}

func (v *ChannelEditView) previewChanges() {
	var diff strings.Builder

	diff.WriteString("[yellow]Channel Settings Changes[white]\n\n")
	diff.WriteString(fmt.Sprintf("Channel: [cyan]#%s[white]\n\n", v.channelName))

	hasChanges := false

	if v.topic != v.currentChannel.Topic {
		diff.WriteString("Topic:\n")
		diff.WriteString(fmt.Sprintf("  [red]- %s[white]\n", v.currentChannel.Topic))
		diff.WriteString(fmt.Sprintf("  [green]+ %s[white]\n\n", v.topic))
		hasChanges = true
	}

	newMaxMsgs, newMaxBytes, newMaxAge, newMaxMsgSize := v.parsedValues()

	if newMaxMsgs != v.currentChannel.Limits.MaxMessages {
		diff.WriteString("Max Messages:\n")
		if v.currentChannel.Limits.MaxMessages <= 0 {
			diff.WriteString("  [red]- unlimited[white]\n")
		} else {
			diff.WriteString(fmt.Sprintf("  [red]- %d[white]\n", v.currentChannel.Limits.MaxMessages))
		}
		if newMaxMsgs <= 0 {
			diff.WriteString("  [green]+ unlimited[white]\n\n")
		} else {
			diff.WriteString(fmt.Sprintf("  [green]+ %d[white]\n\n", newMaxMsgs))
		}
		hasChanges = true
	}

	if newMaxBytes != v.currentChannel.Limits.MaxBytes {
		diff.WriteString("Max Bytes:\n")
		diff.WriteString(fmt.Sprintf("  [red]- %s[white]\n", describeByteLimit(v.currentChannel.Limits.MaxBytes)))
		diff.WriteString(fmt.Sprintf("  [green]+ %s[white]\n\n", describeByteLimit(newMaxBytes)))
		hasChanges = true
	}

	if newMaxAge != v.currentChannel.Limits.MaxAge {
		diff.WriteString("Max Age:\n")
		diff.WriteString(fmt.Sprintf("  [red]- %s[white]\n", formatDuration(v.currentChannel.Limits.MaxAge)))
		diff.WriteString(fmt.Sprintf("  [green]+ %s[white]\n\n", formatDuration(newMaxAge)))
		hasChanges = true
	}

	if newMaxMsgSize != v.currentChannel.Limits.MaxMsgSize {
		diff.WriteString("Max Message Size:\n")
		diff.WriteString(fmt.Sprintf("  [red]- %s[white]\n", describeByteLimit(int64(v.currentChannel.Limits.MaxMsgSize))))
		diff.WriteString(fmt.Sprintf("  [green]+ %s[white]\n\n", describeByteLimit(int64(newMaxMsgSize))))
		hasChanges = true
	}

	if !strings.EqualFold(v.discard, v.currentChannel.Limits.Discard) {
		diff.WriteString("Discard:\n")
		diff.WriteString(fmt.Sprintf("  [red]- %s[white]\n", v.currentChannel.Limits.Discard))
		diff.WriteString(fmt.Sprintf("  [green]+ %s[white]\n\n", v.discard))
		hasChanges = true
	}

	if !hasChanges {
		diff.WriteString("[gray]No changes detected[white]")
	}

	v.diffView.SetText(diff.String())
	v.diffView.ScrollToBeginning()
}

func describeByteLimit(limit int64) string {
	if limit <= 0 {
		return "unlimited"
	}
	return formatBytes(uint64(limit))
}

func (v *ChannelEditView) applyChanges() {
	if v.ui.readOnly {
		v.ui.ShowError("Cannot edit channel in read-only mode")
		return
	}

	modal := components.ConfirmModal(
		v.ui.theme,
		"Apply changes to channel settings?",
		func() {
			v.ui.CloseModal()
			v.performUpdate()
		},
		func() {
			v.ui.CloseModal()
		},
	)
	v.ui.ShowModal(modal)
}

func (v *ChannelEditView) performUpdate() {
	if v.topic != v.currentChannel.Topic {
		if err := v.ui.client.SetTopic(v.channelName, v.topic); err != nil {
			v.ui.ShowError(fmt.Sprintf("Failed to update topic: %v", err))
			return
		}
	}

	newMaxMsgs, newMaxBytes, newMaxAge, newMaxMsgSize := v.parsedValues()
	if err := v.ui.client.UpdateLimits(v.channelName, newMaxMsgs, newMaxBytes, newMaxAge, newMaxMsgSize, v.discard); err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to update channel: %v", err))
		return
	}

	modal := components.InfoModal(v.ui.theme, "Channel Updated",
		fmt.Sprintf("Settings for '#%s' updated successfully!", v.channelName),
		func() {
			v.ui.CloseModal()
			v.ui.ShowChannelDetail(v.channelName)
		})
	v.ui.ShowModal(modal)
}

// Show shows the edit view.
func (v *ChannelEditView) Show() {
	v.ui.currentPage = "channel-edit"
	v.ui.pages.SwitchToPage("channel-edit")
	v.ui.app.SetFocus(v.form)
	v.ui.footer.Update("Tab: Navigate  Enter: Select  Esc: Cancel")
}

// GetPrimitive returns the primitive for this view.
func (v *ChannelEditView) GetPrimitive() tview.Primitive {
	return v.mainFlex
}
