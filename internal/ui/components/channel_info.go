package components

import (
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/i18n"
	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/theme"
)

// ChannelInfo is the default header subtitle: the channel's member count,
// replaced by a typing indicator while other users are typing (when the
// typing flag is enabled).
type ChannelInfo struct {
	*tview.TextView
	th         *theme.Theme
	tr         *i18n.Translator
	showTyping bool

	channel *models.Channel
	typers  []string
}

// NewChannelInfo creates the subtitle widget for channel.
func NewChannelInfo(channel *models.Channel, th *theme.Theme, tr *i18n.Translator, showTyping bool) *ChannelInfo {
	ci := &ChannelInfo{
		TextView:   tview.NewTextView().SetTextAlign(tview.AlignCenter),
		th:         th,
		tr:         tr,
		showTyping: showTyping,
		channel:    channel,
	}
	ci.SetTextColor(th.Subtitle)
	ci.render()
	return ci
}

// SetChannel swaps the displayed channel, e.g. after a refresh updated the
// member counters.
func (ci *ChannelInfo) SetChannel(channel *models.Channel) {
	ci.channel = channel
	ci.render()
}

// SetTyping updates the set of users currently typing. An empty or nil
// slice restores the member count line.
func (ci *ChannelInfo) SetTyping(names []string) {
	ci.typers = names
	ci.render()
}

func (ci *ChannelInfo) render() {
	ci.SetText(ci.line())
}

// line computes the subtitle text for the current state.
func (ci *ChannelInfo) line() string {
	if ci.showTyping && len(ci.typers) > 0 {
		if len(ci.typers) == 1 {
			return ci.tr.Getf(i18n.KeyTypingOne, ci.typers[0])
		}
		return ci.tr.Getf(i18n.KeyTypingMany, len(ci.typers))
	}
	return ci.tr.Getf(i18n.KeyMemberCount, ci.channel.Members, ci.channel.Online)
}
