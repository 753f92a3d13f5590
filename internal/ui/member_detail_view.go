package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/models"
)

// MemberDetailView displays one member's presence detail and their recent
// messages in the channel.
type MemberDetailView struct {
	ui          *UIManager
	flex        *tview.Flex
	infoView    *tview.TextView
	recentView  *tview.TextView
	channelName string
	userName    string
	member      *models.Member
}

// NewMemberDetailView creates a new member detail view.
func NewMemberDetailView(ui *UIManager) *MemberDetailView {
	view := &MemberDetailView{
		ui: ui,
	}

	view.infoView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	view.infoView.SetBorder(true).
		SetTitle(" Member Info ").
		SetTitleAlign(tview.AlignCenter)

	view.recentView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	view.recentView.SetBorder(true).
		SetTitle(" Recent Messages ").
		SetTitleAlign(tview.AlignCenter)

	view.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view.infoView, 6, 0, false).
		AddItem(view.recentView, 0, 1, true)

	view.setupKeybindings()

	return view
}

func (v *MemberDetailView) setupKeybindings() {
	v.flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			v.ui.ShowChannelDetail(v.channelName)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'r':
				v.Refresh()
				return nil
			}
		}
		return event
	})
}

// SetMember sets the member to display.
func (v *MemberDetailView) SetMember(channelName, userName string) {
	v.channelName = channelName
	v.userName = userName
	v.flex.SetTitle(fmt.Sprintf(" Member: %s (#%s) ", userName, channelName))
	v.Refresh()
}

// Refresh updates the member details.
func (v *MemberDetailView) Refresh() {
	if v.channelName == "" || v.userName == "" {
		return
	}

	member, err := v.ui.client.MemberInfo(v.channelName, v.userName)
	if err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to get member info: %v", err))
		return
	}
	v.member = member

	v.updateInfo()
	go v.loadRecent(v.channelName, v.userName)
	v.ui.footer.Update("r: Refresh  Esc: Back")
}

func (v *MemberDetailView) updateInfo() {
	if v.member == nil {
		return
	}

	statusColor := "gray"
	if v.member.IsOnline() {
		statusColor = "green"
	}

	client := v.member.Client
	if client == "" {
		client = "(unknown)"
	}

	info := fmt.Sprintf(
		"[yellow]User:[white] %s    [yellow]Channel:[white] #%s\n"+
			"[yellow]Status:[white] [%s]%s[white]\n"+
			"[yellow]Last Seen:[white] %s\n"+
			"[yellow]Client:[white] %s",
		v.member.User,
		v.member.Channel,
		statusColor,
		v.member.Status,
		formatAge(v.member.LastSeen),
		client,
	)

	v.infoView.SetText(info)
}

// loadRecent pulls the member's latest messages from the channel history.
func (v *MemberDetailView) loadRecent(channel, user string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	messages, err := v.ui.client.SearchMessages(ctx, chat.SearchQuery{
		ChannelPattern: channel,
		Sender:         user,
		Limit:          20,
	})

	v.ui.app.QueueUpdateDraw(func() {
		if v.channelName != channel || v.userName != user {
			return
		}
		if err != nil {
			v.recentView.SetText(fmt.Sprintf("[red]Failed to load messages: %v[white]", err))
			return
		}
		if len(messages) == 0 {
			v.recentView.SetText("[gray]No recent messages[white]")
			return
		}

		v.recentView.SetText("")
		for _, msg := range messages {
			fmt.Fprintf(v.recentView, "[gray]%s[-]  %s\n",
				msg.Time.Local().Format("2006-01-02 15:04"),
				tview.Escape(msg.Body))
		}
		v.recentView.ScrollToBeginning()
	})
}

// GetPrimitive returns the primitive for this view.
func (v *MemberDetailView) GetPrimitive() tview.Primitive {
	return v.flex
}
