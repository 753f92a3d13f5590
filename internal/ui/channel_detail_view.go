package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/models"
)

// ChannelDetailView displays one channel's info and its member roster.
type ChannelDetailView struct {
	ui          *UIManager
	flex        *tview.Flex
	infoView    *tview.TextView
	memberTable *tview.Table
	channelName string
	channel     *models.Channel
	members     []*models.Member
}

// NewChannelDetailView creates a new channel detail view.
func NewChannelDetailView(ui *UIManager) *ChannelDetailView {
	view := &ChannelDetailView{
		ui:      ui,
		members: make([]*models.Member, 0),
	}

	view.infoView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	view.infoView.SetBorder(true).
		SetTitle(" Channel Info ").
		SetTitleAlign(tview.AlignCenter)

	view.memberTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	view.memberTable.SetBorder(true).
		SetTitle(" Members ").
		SetTitleAlign(tview.AlignCenter)

	view.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view.infoView, 7, 0, false).
		AddItem(view.memberTable, 0, 1, true)

	view.setupKeybindings()
	view.setupMemberHeaders()

	return view
}

func (v *ChannelDetailView) setupMemberHeaders() {
	headers := []string{"USER", "STATUS", "LAST SEEN", "CLIENT"}
	for i, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.memberTable.SetCell(0, i, cell)
	}
}

func (v *ChannelDetailView) setupKeybindings() {
	v.memberTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			v.onEnter()
			return nil
		case tcell.KeyEsc:
			v.ui.ShowChannelList()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'd':
				v.ui.ShowDescribe(v.channelName)
				return nil
			case 'm':
				v.ui.ShowChat(v.channelName)
				return nil
			case 'e':
				v.ui.ShowChannelEdit(v.channelName)
				return nil
			case 'o':
				v.ui.ShowPrefsEdit(v.channelName)
				return nil
			case 'g':
				v.ui.ShowActivity(v.channelName)
				return nil
			case 'r':
				v.Refresh()
				return nil
			}
		}
		return event
	})
}

// SetChannel sets the channel to display.
func (v *ChannelDetailView) SetChannel(channelName string) {
	v.channelName = channelName
	v.flex.SetTitle(fmt.Sprintf(" Channel: #%s ", channelName))
	v.Refresh()
}

// Refresh updates the channel details and member roster.
func (v *ChannelDetailView) Refresh() {
	if v.channelName == "" {
		return
	}

	channel, err := v.ui.client.ChannelInfo(v.channelName)
	if err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to get channel info: %v", err))
		return
	}
	v.channel = channel

	members, err := v.ui.client.Members(v.channelName)
	if err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to list members: %v", err))
		return
	}
	v.members = members

	v.updateInfo()
	v.updateMemberTable()
}

func (v *ChannelDetailView) updateInfo() {
	if v.channel == nil {
		return
	}

	topic := v.channel.Topic
	if topic == "" {
		topic = "(no topic)"
	}

	maxMsgs := "unlimited"
	if v.channel.Limits.MaxMessages > 0 {
		maxMsgs = formatNumber(uint64(v.channel.Limits.MaxMessages))
	}
	maxBytes := "unlimited"
	if v.channel.Limits.MaxBytes > 0 {
		maxBytes = formatBytes(uint64(v.channel.Limits.MaxBytes))
	}

	info := fmt.Sprintf(
		"[yellow]Topic:[white] %s\n"+
			"[yellow]Creator:[white] %s    [yellow]Created:[white] %s    [yellow]Private:[white] %t\n"+
			"[yellow]Messages:[white] %s    [yellow]Bytes:[white] %s    [yellow]First Seq:[white] %d    [yellow]Last Seq:[white] %d\n"+
			"[yellow]Max Age:[white] %s    [yellow]Max Msgs:[white] %s    [yellow]Max Bytes:[white] %s",
		tview.Escape(topic),
		v.channel.Creator,
		formatAge(v.channel.Created),
		v.channel.Private,
		formatNumber(v.channel.Messages),
		formatBytes(v.channel.Bytes),
		v.channel.FirstSeq,
		v.channel.LastSeq,
		formatDuration(v.channel.Limits.MaxAge),
		maxMsgs,
		maxBytes,
	)

	v.infoView.SetText(info)
}

func (v *ChannelDetailView) updateMemberTable() {
	for row := v.memberTable.GetRowCount() - 1; row > 0; row-- {
		v.memberTable.RemoveRow(row)
	}

	for i, member := range v.members {
		row := i + 1

		status := member.Status
		statusColor := v.ui.theme.Muted
		if member.IsOnline() {
			statusColor = v.ui.theme.Success
		}

		v.memberTable.SetCell(row, 0, tview.NewTableCell(member.User).SetTextColor(v.ui.theme.UserColor(member.User)))
		v.memberTable.SetCell(row, 1, tview.NewTableCell(status).SetTextColor(statusColor))
		v.memberTable.SetCell(row, 2, tview.NewTableCell(formatAge(member.LastSeen)))
		v.memberTable.SetCell(row, 3, tview.NewTableCell(member.Client))
	}

	v.ui.footer.Update("Enter: Member  m: Open chat  d: Describe  e: Edit  o: Prefs  g: Activity  r: Refresh  Esc: Back")
}

func (v *ChannelDetailView) onEnter() {
	row, _ := v.memberTable.GetSelection()
	if row > 0 && row <= len(v.members) {
		member := v.members[row-1]
		v.ui.ShowMemberDetail(v.channelName, member.User)
	}
}

// GetPrimitive returns the primitive for this view.
func (v *ChannelDetailView) GetPrimitive() tview.Primitive {
	return v.flex
}
