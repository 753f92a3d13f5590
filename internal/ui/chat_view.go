package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/store"
	"github.com/natter-io/natter/internal/ui/components"
)

// typingSendInterval throttles outgoing typing notifications while the
// user keeps hammering the keyboard.
const typingSendInterval = 2 * time.Second

// ChatView is the open conversation: channel header, scrolling message
// log and the compose line. One instance is reused across channels; a
// SetChannel call tears down the previous channel's subscriptions and
// builds a fresh header.
type ChatView struct {
	ui   *UIManager
	flex *tview.Flex

	header   *components.ChannelHeader
	messages *tview.TextView
	input    *tview.InputField

	channel string
	typing  *chat.TypingTracker

	cancelMsgs    func()
	cancelTyping  func()
	stopHeartbeat context.CancelFunc

	lastTypingSent time.Time
	lastSeq        uint64
}

// NewChatView creates the chat view. No channel is bound until SetChannel.
func NewChatView(ui *UIManager) *ChatView {
	view := &ChatView{
		ui:     ui,
		typing: chat.NewTypingTracker(),
	}

	view.messages = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	view.messages.SetBorder(true)
	view.messages.SetChangedFunc(func() {
		view.messages.ScrollToEnd()
	})

	view.input = tview.NewInputField().
		SetLabel(" > ").
		SetFieldBackgroundColor(ui.theme.Surface).
		SetChangedFunc(func(text string) {
			view.notifyTyping(text)
		})
	view.input.SetBorder(true)
	view.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			view.send()
			return nil
		case tcell.KeyEsc:
			view.ui.ShowChannelList()
			return nil
		}
		return event
	})

	view.flex = tview.NewFlex().SetDirection(tview.FlexRow)
	return view
}

// SetChannel binds the view to a channel: loads its info and history,
// opens the live subscriptions and starts the presence heartbeat.
func (v *ChatView) SetChannel(channel string) {
	v.Stop()

	v.channel = channel
	v.typing.Reset()
	v.lastSeq = 0
	v.messages.SetText("")
	v.messages.SetTitle(fmt.Sprintf(" #%s ", channel))

	ch, err := v.ui.client.ChannelInfo(channel)
	if err != nil {
		v.ui.log.Warn("loading channel info failed", "channel", channel, "error", err)
		ch = &models.Channel{Name: channel}
	}

	v.header = components.NewChannelHeader(ch, v.ui.theme, v.ui.translator, components.HeaderOptions{
		ShowBackButton:       true,
		ShowTypingIndicator:  true,
		ShowConnectionBanner: true,
		OnBack:               v.ui.ShowChannelList,
		OnTitleTap:           func() { v.ui.ShowChannelDetail(channel) },
		OnImageTap:           func() { v.ui.ShowChannelDetail(channel) },
	})
	v.header.Bind(v.ui.client.Status(), v.ui.app)

	v.flex.Clear()
	v.flex.AddItem(v.header, components.HeaderHeight, 0, false)
	v.flex.AddItem(v.messages, 0, 1, false)
	v.flex.AddItem(v.input, 3, 0, true)

	v.restoreDraft()
	v.subscribe()

	if err := v.ui.client.Join(channel); err != nil {
		v.ui.log.Warn("joining channel failed", "channel", channel, "error", err)
	}
	hbCtx, hbCancel := context.WithCancel(context.Background())
	v.stopHeartbeat = hbCancel
	go v.ui.client.Heartbeat(hbCtx, channel)

	go v.loadHistory(channel)
	go v.refreshBadge(channel)

	v.updateFooter()
}

func (v *ChatView) subscribe() {
	channel := v.channel

	cancelMsgs, err := v.ui.client.SubscribeMessages(channel, func(ev models.ChatEvent) {
		v.ui.app.QueueUpdateDraw(func() {
			if v.channel != channel {
				return
			}
			v.handleEvent(ev)
		})
	})
	if err != nil {
		v.ui.log.Warn("message subscription failed", "channel", channel, "error", err)
	} else {
		v.cancelMsgs = cancelMsgs
	}

	cancelTyping, err := v.ui.client.SubscribeTyping(channel, func(user string) {
		v.typing.Touch(user)
		v.ui.app.QueueUpdateDraw(func() {
			if v.channel != channel {
				return
			}
			v.updateTyping()
		})
	})
	if err != nil {
		v.ui.log.Warn("typing subscription failed", "channel", channel, "error", err)
	} else {
		v.cancelTyping = cancelTyping
	}
}

func (v *ChatView) loadHistory(channel string) {
	history, err := v.ui.client.History(channel, 200)
	v.ui.app.QueueUpdateDraw(func() {
		if v.channel != channel {
			return
		}
		if err != nil {
			v.appendSystem(fmt.Sprintf("failed to load history: %v", err))
			return
		}
		for _, msg := range history {
			v.appendMessage(msg)
		}
		if len(history) > 0 {
			v.markRead(history[len(history)-1].Seq)
		}
	})
}

// refreshBadge recomputes the back-button unread count from every other
// channel's position against the local read state.
func (v *ChatView) refreshBadge(channel string) {
	channels, err := v.ui.client.ListChannels()
	if err != nil {
		return
	}
	lastReads, err := v.ui.store.LastReads()
	if err != nil {
		return
	}

	var unread int
	for _, ch := range channels {
		if ch.Name == channel {
			continue
		}
		if ch.LastSeq > lastReads[ch.Name] {
			unread += int(ch.LastSeq - lastReads[ch.Name])
		}
	}

	v.ui.app.QueueUpdateDraw(func() {
		if v.channel != channel {
			return
		}
		if back := v.header.Back(); back != nil {
			back.SetUnread(unread)
		}
	})
}

func (v *ChatView) handleEvent(ev models.ChatEvent) {
	switch ev.Type {
	case models.EventMessage:
		v.typing.Clear(ev.From)
		v.updateTyping()
		msg := ev.Message(0)
		v.appendMessage(&msg)
	case models.EventJoin:
		v.appendSystem(fmt.Sprintf("%s joined", ev.From))
	case models.EventLeave:
		v.appendSystem(fmt.Sprintf("%s left", ev.From))
	}
}

func (v *ChatView) appendMessage(msg *models.Message) {
	color := v.ui.theme.UserColor(msg.Sender)
	fmt.Fprintf(v.messages, "[gray]%s[-] [#%06x]%s[-]  %s\n",
		msg.Time.Local().Format("15:04"),
		color.Hex(),
		msg.Sender,
		tview.Escape(msg.Body))
	if msg.Seq > v.lastSeq {
		v.lastSeq = msg.Seq
	}
}

func (v *ChatView) appendSystem(text string) {
	fmt.Fprintf(v.messages, "[gray]-- %s --[-]\n", text)
}

func (v *ChatView) send() {
	body := strings.TrimSpace(v.input.GetText())
	if body == "" {
		return
	}
	if v.ui.readOnly {
		v.ui.ShowError("Cannot send messages in read-only mode")
		return
	}

	msg, err := v.ui.client.SendMessage(v.channel, body)
	if err != nil {
		if errors.Is(err, chat.ErrNotConnected) {
			v.ui.ShowError("Not connected; message not sent")
		} else {
			v.ui.ShowError(fmt.Sprintf("Failed to send: %v", err))
		}
		return
	}

	// The live subscription echoes the message back for display.
	v.input.SetText("")
	v.ui.store.DeleteDraft(v.channel)
	v.markRead(msg.Seq)
}

// notifyTyping publishes a throttled typing notification while composing.
func (v *ChatView) notifyTyping(text string) {
	if text == "" || v.ui.readOnly || v.channel == "" {
		return
	}
	if time.Since(v.lastTypingSent) < typingSendInterval {
		return
	}
	v.lastTypingSent = time.Now()
	if err := v.ui.client.SendTyping(v.channel); err != nil {
		v.ui.log.Debug("typing notification failed", "channel", v.channel, "error", err)
	}
}

func (v *ChatView) updateTyping() {
	if info := v.header.Info(); info != nil {
		info.SetTyping(v.typing.Active())
	}
}

func (v *ChatView) restoreDraft() {
	draft, err := v.ui.store.Draft(v.channel)
	if err != nil {
		if !errors.Is(err, store.ErrNoDraft) {
			v.ui.log.Warn("loading draft failed", "channel", v.channel, "error", err)
		}
		v.input.SetText("")
		return
	}
	v.input.SetText(draft)
}

func (v *ChatView) markRead(seq uint64) {
	if seq == 0 {
		return
	}
	if err := v.ui.store.MarkRead(v.channel, seq); err != nil {
		v.ui.log.Warn("marking read failed", "channel", v.channel, "error", err)
	}
}

// Tick expires stale typing entries between notifications.
func (v *ChatView) Tick() {
	if v.channel == "" || v.header == nil {
		return
	}
	v.updateTyping()
}

// Stop leaves the channel and tears down subscriptions, the heartbeat and
// the header's status binding. The current compose text is saved as a
// draft. Safe to call when no channel is bound.
func (v *ChatView) Stop() {
	if v.channel == "" {
		return
	}
	channel := v.channel
	v.channel = ""

	if body := v.input.GetText(); body != "" {
		if err := v.ui.store.SaveDraft(channel, body); err != nil {
			v.ui.log.Warn("saving draft failed", "channel", channel, "error", err)
		}
	}

	if v.cancelMsgs != nil {
		v.cancelMsgs()
		v.cancelMsgs = nil
	}
	if v.cancelTyping != nil {
		v.cancelTyping()
		v.cancelTyping = nil
	}
	if v.stopHeartbeat != nil {
		v.stopHeartbeat()
		v.stopHeartbeat = nil
	}
	if v.header != nil {
		v.header.Stop()
	}

	// Live messages carry no history sequence, so re-read the channel's
	// last position to persist an accurate read marker.
	go func() {
		if err := v.ui.client.Leave(channel); err != nil {
			v.ui.log.Debug("leaving channel failed", "channel", channel, "error", err)
		}
		if ch, err := v.ui.client.ChannelInfo(channel); err == nil && ch.LastSeq > 0 {
			if err := v.ui.store.MarkRead(channel, ch.LastSeq); err != nil {
				v.ui.log.Warn("marking read failed", "channel", channel, "error", err)
			}
		}
	}()
}

func (v *ChatView) updateFooter() {
	if v.ui.readOnly {
		v.ui.footer.Update("ESC: Back  (read-only: sending disabled)")
		return
	}
	v.ui.footer.Update("Enter: Send  ESC: Back to channels")
}

// GetPrimitive returns the primitive for this view.
func (v *ChatView) GetPrimitive() tview.Primitive {
	return v.flex
}
