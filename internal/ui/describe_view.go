package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/models"
)

// DescribeView displays a full-screen channel description with retention
// usage bars and the member roster summary.
type DescribeView struct {
	ui          *UIManager
	flex        *tview.Flex
	textView    *tview.TextView
	channelName string
	channel     *models.Channel
	members     []*models.Member
}

// NewDescribeView creates a new describe view.
func NewDescribeView(ui *UIManager) *DescribeView {
	view := &DescribeView{
		ui: ui,
	}

	view.textView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)

	view.textView.SetBorder(true).
		SetTitle(" Channel Description ").
		SetTitleAlign(tview.AlignCenter)

	view.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view.textView, 0, 1, true)

	view.setupKeybindings()

	return view
}

func (v *DescribeView) setupKeybindings() {
	v.flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			v.ui.ShowChannelList()
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

// SetChannel sets the channel to describe.
func (v *DescribeView) SetChannel(channelName string) {
	v.channelName = channelName
	v.flex.SetTitle(fmt.Sprintf(" Describe: #%s ", channelName))
	v.Refresh()
}

// Refresh updates the description.
func (v *DescribeView) Refresh() {
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

	v.updateDescription()
}

func (v *DescribeView) updateDescription() {
	if v.channel == nil {
		return
	}

	var output strings.Builder

	output.WriteString("[yellow]═══ CHANNEL OVERVIEW ═══[white]\n\n")
	output.WriteString(fmt.Sprintf("[cyan]Name:[white]         %s\n", v.channel.DisplayName()))
	topic := v.channel.Topic
	if topic == "" {
		topic = "(no topic)"
	}
	output.WriteString(fmt.Sprintf("[cyan]Topic:[white]        %s\n", tview.Escape(topic)))
	output.WriteString(fmt.Sprintf("[cyan]Creator:[white]      %s\n", v.channel.Creator))
	output.WriteString(fmt.Sprintf("[cyan]Private:[white]      %t\n", v.channel.Private))
	output.WriteString(fmt.Sprintf("[cyan]Storage:[white]      %s\n", v.channel.Limits.Storage))
	output.WriteString(fmt.Sprintf("[cyan]Replicas:[white]     %d\n\n", v.channel.Limits.Replicas))

	output.WriteString("[yellow]═══ HISTORY ═══[white]\n\n")
	output.WriteString(fmt.Sprintf("[cyan]Total Messages:[white]  %s\n", formatNumber(v.channel.Messages)))
	output.WriteString(fmt.Sprintf("[cyan]Total Bytes:[white]     %s\n", formatBytes(v.channel.Bytes)))
	output.WriteString(fmt.Sprintf("[cyan]First Seq:[white]       %d\n", v.channel.FirstSeq))
	output.WriteString(fmt.Sprintf("[cyan]Last Seq:[white]        %d\n\n", v.channel.LastSeq))

	output.WriteString("[yellow]Message Count:[white]\n")
	output.WriteString(v.createBar(v.channel.Messages, positiveLimit(v.channel.Limits.MaxMessages)))
	output.WriteString("\n\n")

	output.WriteString("[yellow]Storage Usage:[white]\n")
	output.WriteString(v.createBar(v.channel.Bytes, positiveLimit(v.channel.Limits.MaxBytes)))
	output.WriteString("\n\n")

	maxMsgs := "unlimited"
	if v.channel.Limits.MaxMessages > 0 {
		maxMsgs = formatNumber(uint64(v.channel.Limits.MaxMessages))
	}
	maxBytes := "unlimited"
	if v.channel.Limits.MaxBytes > 0 {
		maxBytes = formatBytes(uint64(v.channel.Limits.MaxBytes))
	}
	maxMsgSize := "unlimited"
	if v.channel.Limits.MaxMsgSize > 0 {
		maxMsgSize = formatBytes(uint64(v.channel.Limits.MaxMsgSize))
	}

	output.WriteString("[yellow]═══ RETENTION ═══[white]\n\n")
	output.WriteString(fmt.Sprintf("[cyan]Max Age:[white]         %s\n", formatDuration(v.channel.Limits.MaxAge)))
	output.WriteString(fmt.Sprintf("[cyan]Max Messages:[white]    %s\n", maxMsgs))
	output.WriteString(fmt.Sprintf("[cyan]Max Bytes:[white]       %s\n", maxBytes))
	output.WriteString(fmt.Sprintf("[cyan]Max Msg Size:[white]    %s\n", maxMsgSize))
	output.WriteString(fmt.Sprintf("[cyan]Discard:[white]         %s\n\n", v.channel.Limits.Discard))

	output.WriteString("[yellow]═══ MEMBERS ═══[white]\n\n")
	online := 0
	for _, m := range v.members {
		if m.IsOnline() {
			online++
		}
	}
	output.WriteString(fmt.Sprintf("[cyan]Total Members:[white]  %d\n", len(v.members)))
	output.WriteString(fmt.Sprintf("[cyan]Online:[white]         %d\n\n", online))

	if len(v.members) > 0 {
		output.WriteString(fmt.Sprintf("%-24s %8s %16s\n",
			"[yellow]USER[white]",
			"[yellow]STATUS[white]",
			"[yellow]LAST SEEN[white]"))
		output.WriteString(strings.Repeat("─", 54) + "\n")

		for _, member := range v.members {
			output.WriteString(fmt.Sprintf("%-24s %8s %16s\n",
				member.User,
				member.Status,
				formatAge(member.LastSeen)))
		}
	}

	if prefs, err := v.ui.store.ChannelPrefs(v.channelName); err == nil {
		output.WriteString("\n[yellow]═══ NOTIFICATIONS ═══[white]\n\n")
		output.WriteString(fmt.Sprintf("[cyan]Muted:[white]         %t\n", prefs.Muted))
		output.WriteString(fmt.Sprintf("[cyan]Mention Only:[white]  %t\n", prefs.MentionOnly))
	}

	output.WriteString("\n\n[yellow]═══ TIMESTAMPS ═══[white]\n\n")
	if !v.channel.Created.IsZero() {
		output.WriteString(fmt.Sprintf("[cyan]Created:[white]       %s\n", v.channel.Created.Format("2006-01-02 15:04:05")))
		output.WriteString(fmt.Sprintf("[cyan]Channel Age:[white]   %s\n", formatDuration(time.Since(v.channel.Created))))
	}
	if !v.channel.LastActive.IsZero() {
		output.WriteString(fmt.Sprintf("[cyan]Last Message:[white]  %s\n", v.channel.LastActive.Format("2006-01-02 15:04:05")))
	}

	v.textView.SetText(output.String())
	v.ui.footer.Update("r: Refresh  Esc: Back to channels")
}

// positiveLimit maps the "unlimited" sentinel (-1 or 0) to zero so bars
// and labels can treat it uniformly.
func positiveLimit(limit int64) uint64 {
	if limit <= 0 {
		return 0
	}
	return uint64(limit)
}

// createBar creates a visual usage bar against a retention limit.
func (v *DescribeView) createBar(current, max uint64) string {
	if max == 0 {
		return "[green][████████████████████████████████████████] unlimited[white]"
	}

	percentage := float64(current) / float64(max) * 100
	barWidth := 40
	filled := int(percentage * float64(barWidth) / 100)

	if filled > barWidth {
		filled = barWidth
	}

	color := "green"
	if percentage > 80 {
		color = "red"
	} else if percentage > 60 {
		color = "yellow"
	}

	bar := fmt.Sprintf("[%s][%s%s][white] %.1f%% (%s / %s)",
		color,
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
		percentage,
		formatNumber(current),
		formatNumber(max))

	return bar
}

// GetPrimitive returns the primitive for this view.
func (v *DescribeView) GetPrimitive() tview.Primitive {
	return v.flex
}
