package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/ui/components"
)

// ChannelListView displays every channel on the server with its counters
// and local unread state.
type ChannelListView struct {
	ui            *UIManager
	mainFlex      *tview.Flex
	leftFlex      *tview.Flex
	table         *tview.Table
	describePanel *tview.TextView
	searchInput   *tview.InputField
	channels      []*models.Channel
	allChannels   []*models.Channel
	filterText    string
	searching     bool
}

// NewChannelListView creates the channel list view.
func NewChannelListView(ui *UIManager) *ChannelListView {
	view := &ChannelListView{
		ui:          ui,
		channels:    make([]*models.Channel, 0),
		allChannels: make([]*models.Channel, 0),
	}

	view.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0).
		SetSelectionChangedFunc(func(row, column int) {
			view.updateDescribePanel(row)
		})
	view.table.SetBorder(true).
		SetTitle(" Channels ").
		SetTitleAlign(tview.AlignCenter)

	view.searchInput = tview.NewInputField().
		SetLabel("Filter: ").
		SetFieldWidth(50).
		SetChangedFunc(func(text string) {
			view.filterText = text
			view.applyFilter()
		})
	view.searchInput.SetBorder(true).
		SetTitle(" Search (ESC to clear) ").
		SetTitleAlign(tview.AlignLeft)

	view.describePanel = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	view.describePanel.SetBorder(true).
		SetTitle(" Channel ").
		SetTitleAlign(tview.AlignCenter)
	view.describePanel.SetText("[gray]Select a channel[white]")

	view.leftFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view.table, 0, 1, true)

	view.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(view.leftFlex, 0, 2, true).
		AddItem(view.describePanel, 0, 1, false)

	view.setupKeybindings()
	view.setupHeaders()

	return view
}

func (v *ChannelListView) setupHeaders() {
	headers := []string{"NAME", "TOPIC", "MEMBERS", "MSGS", "UNREAD", "ACTIVITY"}
	for i, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, i, cell)
	}
}

func (v *ChannelListView) setupKeybindings() {
	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			v.openChat()
			return nil
		case tcell.KeyEsc:
			if v.filterText != "" {
				v.clearSearch()
				return nil
			}
			v.ui.ShowProfiles()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case '/':
				v.showSearch()
				return nil
			case 'i':
				if ch := v.selected(); ch != nil {
					v.ui.ShowChannelDetail(ch.Name)
				}
				return nil
			case 'd':
				if ch := v.selected(); ch != nil {
					v.ui.ShowDescribe(ch.Name)
				}
				return nil
			case 'n':
				v.createChannel()
				return nil
			case 'x':
				v.deleteChannel()
				return nil
			case 's':
				v.ui.ShowSearch()
				return nil
			case 'g':
				if ch := v.selected(); ch != nil {
					v.ui.ShowActivity(ch.Name)
				}
				return nil
			case 'G':
				v.ui.ShowActivity("")
				return nil
			case 'e':
				if ch := v.selected(); ch != nil {
					v.ui.ShowChannelEdit(ch.Name)
				}
				return nil
			case 'o':
				if ch := v.selected(); ch != nil {
					v.ui.ShowPrefsEdit(ch.Name)
				}
				return nil
			case 'r':
				v.Refresh()
				return nil
			}
		}
		return event
	})

	v.searchInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			v.clearSearch()
			return nil
		case tcell.KeyEnter, tcell.KeyTab:
			v.closeSearchKeepFilter()
			return nil
		}
		return event
	})
}

// Refresh reloads the channel list and merges in the local read state.
func (v *ChannelListView) Refresh() {
	channels, err := v.ui.client.ListChannels()
	if err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to list channels: %v", err))
		return
	}

	if lastReads, err := v.ui.store.LastReads(); err == nil {
		for _, ch := range channels {
			if ch.LastSeq > lastReads[ch.Name] {
				ch.Unread = ch.LastSeq - lastReads[ch.Name]
			}
		}
	}

	v.allChannels = channels
	v.applyFilter()
}

func (v *ChannelListView) showSearch() {
	if v.searching {
		return
	}
	v.searching = true
	v.leftFlex.Clear()
	v.leftFlex.AddItem(v.searchInput, 3, 0, true)
	v.leftFlex.AddItem(v.table, 0, 1, false)
	v.ui.app.SetFocus(v.searchInput)
	v.updateFooter()
}

func (v *ChannelListView) clearSearch() {
	v.searching = false
	v.filterText = ""
	v.searchInput.SetText("")
	v.leftFlex.Clear()
	v.leftFlex.AddItem(v.table, 0, 1, true)
	v.ui.app.SetFocus(v.table)
	v.applyFilter()
}

func (v *ChannelListView) closeSearchKeepFilter() {
	v.searching = false
	v.leftFlex.Clear()
	v.leftFlex.AddItem(v.table, 0, 1, true)
	v.ui.app.SetFocus(v.table)
	v.updateFooter()
}

func (v *ChannelListView) applyFilter() {
	if v.filterText == "" {
		v.channels = v.allChannels
	} else {
		v.channels = make([]*models.Channel, 0)
		filterLower := strings.ToLower(v.filterText)
		for _, ch := range v.allChannels {
			if strings.Contains(strings.ToLower(ch.Name), filterLower) ||
				strings.Contains(strings.ToLower(ch.Topic), filterLower) {
				v.channels = append(v.channels, ch)
			}
		}
	}
	v.updateTable()
}

func (v *ChannelListView) updateTable() {
	for row := v.table.GetRowCount() - 1; row > 0; row-- {
		v.table.RemoveRow(row)
	}

	for i, ch := range v.channels {
		row := i + 1

		name := ch.DisplayName()
		if ch.Private {
			name += " 🔒"
		}

		unread := ""
		unreadColor := tcell.ColorDefault
		if ch.Unread > 0 {
			unread = formatNumber(ch.Unread)
			unreadColor = v.ui.theme.Accent
		}

		v.table.SetCell(row, 0, tview.NewTableCell(name).SetTextColor(v.ui.theme.UserColor(ch.Name)))
		v.table.SetCell(row, 1, tview.NewTableCell(truncate(ch.Topic, 30)))
		v.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", ch.Members)))
		v.table.SetCell(row, 3, tview.NewTableCell(formatNumber(ch.Messages)))
		v.table.SetCell(row, 4, tview.NewTableCell(unread).SetTextColor(unreadColor))
		v.table.SetCell(row, 5, tview.NewTableCell(formatAge(ch.LastActive)))
	}

	v.updateFooter()
}

func (v *ChannelListView) updateFooter() {
	if v.searching {
		v.ui.footer.Update("Type to filter  Tab/Enter: Jump to list  ESC: Clear filter")
		return
	}
	filterInfo := ""
	if v.filterText != "" {
		filterInfo = fmt.Sprintf(" [Filtered: %d/%d]", len(v.channels), len(v.allChannels))
	}
	v.ui.footer.Update(fmt.Sprintf("Enter: Open  i: Info  d: Describe  n: New  e: Edit  o: Prefs  s: Search  g: Activity  x: Delete%s", filterInfo))
}

func (v *ChannelListView) selected() *models.Channel {
	row, _ := v.table.GetSelection()
	if row > 0 && row <= len(v.channels) {
		return v.channels[row-1]
	}
	return nil
}

func (v *ChannelListView) openChat() {
	if ch := v.selected(); ch != nil {
		v.ui.ShowChat(ch.Name)
	}
}

func (v *ChannelListView) createChannel() {
	if v.ui.readOnly {
		v.ui.ShowError("Cannot create channels in read-only mode")
		return
	}

	v.ui.ShowInputDialog("New Channel", "Name:", "", func(name string) {
		v.ui.CloseModal()
		name = strings.TrimSpace(strings.TrimPrefix(name, "#"))
		if name == "" {
			return
		}
		if err := v.ui.client.CreateChannel(name, "", false); err != nil {
			v.ui.ShowError(fmt.Sprintf("Failed to create channel: %v", err))
			return
		}
		if err := v.ui.client.Join(name); err != nil {
			v.ui.log.Warn("joining created channel failed", "channel", name, "error", err)
		}
		v.Refresh()
	})
}

func (v *ChannelListView) deleteChannel() {
	if v.ui.readOnly {
		v.ui.ShowError("Cannot delete in read-only mode")
		return
	}

	ch := v.selected()
	if ch == nil {
		return
	}

	modal := components.ConfirmModal(
		v.ui.theme,
		fmt.Sprintf("Delete channel '%s'?\nAll history and presence will be removed.", ch.DisplayName()),
		func() {
			v.ui.CloseModal()
			if err := v.ui.client.DeleteChannel(ch.Name); err != nil {
				v.ui.ShowError(fmt.Sprintf("Failed to delete: %v", err))
			} else {
				v.Refresh()
			}
		},
		func() {
			v.ui.CloseModal()
		},
	)
	v.ui.ShowModal(modal)
}

func (v *ChannelListView) updateDescribePanel(row int) {
	if row <= 0 || row > len(v.channels) {
		v.describePanel.SetText("[gray]Select a channel[white]")
		return
	}

	ch := v.channels[row-1]

	var output strings.Builder
	output.WriteString(fmt.Sprintf("[yellow]%s[white]\n\n", ch.DisplayName()))
	if ch.Topic != "" {
		output.WriteString(fmt.Sprintf("[cyan]Topic:[white] %s\n\n", tview.Escape(ch.Topic)))
	}
	if ch.Creator != "" {
		output.WriteString(fmt.Sprintf("[cyan]Created by:[white] %s\n", ch.Creator))
	}
	if !ch.Created.IsZero() {
		output.WriteString(fmt.Sprintf("[cyan]Created:[white] %s\n", ch.Created.Format("2006-01-02")))
	}
	output.WriteString(fmt.Sprintf("[cyan]Members:[white] %d\n\n", ch.Members))

	output.WriteString("[yellow]History:[white]\n")
	output.WriteString(fmt.Sprintf("  Messages: %s\n", formatNumber(ch.Messages)))
	output.WriteString(fmt.Sprintf("  Size: %s\n", formatBytes(ch.Bytes)))
	output.WriteString(fmt.Sprintf("  Last activity: %s\n\n", formatAge(ch.LastActive)))

	output.WriteString("[yellow]Retention:[white]\n")
	output.WriteString(fmt.Sprintf("  Max Age: %s\n", formatDuration(ch.Limits.MaxAge)))
	maxMsgs := "unlimited"
	if ch.Limits.MaxMessages > 0 {
		maxMsgs = formatNumber(uint64(ch.Limits.MaxMessages))
	}
	output.WriteString(fmt.Sprintf("  Max Msgs: %s\n", maxMsgs))

	if ch.Unread > 0 {
		output.WriteString(fmt.Sprintf("\n[yellow]Unread:[white] %s\n", formatNumber(ch.Unread)))
	}

	v.describePanel.SetText(output.String())
	v.describePanel.ScrollToBeginning()
}

// GetPrimitive returns the primitive for this view.
func (v *ChannelListView) GetPrimitive() tview.Primitive {
	return v.mainFlex
}
