package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/i18n"
	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/theme"
)

// HeaderHeight is the fixed number of rows a ChannelHeader occupies:
// one banner row plus three toolbar rows. Hosting layouts reserve exactly
// this many rows; the value never varies with content or status.
const HeaderHeight = bannerHeight + toolbarHeight

const (
	bannerHeight  = 1
	toolbarHeight = 3

	defaultLeadingWidth = 6
	actionsRightPad     = 1
)

// HeaderOptions is the construction-time configuration of a ChannelHeader.
// It is copied at construction and immutable afterwards. All callbacks are
// optional; nil means "do nothing". Override primitives, when set, are used
// verbatim and the corresponding default widget is never built.
type HeaderOptions struct {
	ShowBackButton       bool
	ShowTypingIndicator  bool
	ShowConnectionBanner bool

	OnBack     func()
	OnTitleTap func()
	OnImageTap func()

	Leading  tview.Primitive
	Title    tview.Primitive
	Subtitle tview.Primitive
	Actions  []tview.Primitive

	// Flex columns need explicit widths; zero means the component default.
	LeadingWidth int
	ActionsWidth int

	// Background overrides the theme's header background when not
	// tcell.ColorDefault.
	Background tcell.Color
}

// ChannelHeader is the presentational header bar shown above an open
// channel: a connection-status banner row plus a toolbar row holding a
// leading control, the tappable title block and trailing action widgets.
//
// The header is a pure consumer: channel, theme and translator are
// injected at construction and never mutated. Connection status arrives
// through an explicit StatusFeed subscription whose lifetime is bound to
// the header via Bind/Stop.
type ChannelHeader struct {
	*tview.Flex

	channel *models.Channel
	th      *theme.Theme
	tr      *i18n.Translator
	opts    HeaderOptions

	background tcell.Color
	banner     *tview.TextView
	titleBlock *tview.Flex

	// Resolved parts, kept for callers (and tests) to reach the defaults.
	leading  tview.Primitive
	back     *BackButton
	title    tview.Primitive
	subtitle tview.Primitive
	info     *ChannelInfo
	actions  []tview.Primitive
	avatar   *Avatar

	status        chat.Status
	bannerLabel   string
	bannerVisible bool

	cancel func()
}

// NewChannelHeader builds a header for channel. All three collaborators
// must be non-nil; the header does not guard against their absence.
func NewChannelHeader(channel *models.Channel, th *theme.Theme, tr *i18n.Translator, opts HeaderOptions) *ChannelHeader {
	h := &ChannelHeader{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		channel: channel,
		th:      th,
		tr:      tr,
		opts:    opts,
	}

	h.background = th.HeaderBackground
	if opts.Background != tcell.ColorDefault {
		h.background = opts.Background
	}
	h.SetBackgroundColor(h.background)

	h.banner = tview.NewTextView().
		SetTextAlign(tview.AlignCenter)
	h.banner.SetBackgroundColor(h.background)

	h.buildLeading()
	h.buildTitleBlock()
	h.buildActions()

	toolbar := tview.NewFlex().SetDirection(tview.FlexColumn)
	toolbar.SetBackgroundColor(h.background)
	toolbar.AddItem(h.leading, h.leadingWidth(), 0, false)
	toolbar.AddItem(h.titleBlock, 0, 1, false)
	for _, a := range h.actions {
		toolbar.AddItem(a, h.actionWidth(), 0, false)
	}
	toolbar.AddItem(nil, actionsRightPad, 0, false)

	h.AddItem(h.banner, bannerHeight, 0, false)
	h.AddItem(toolbar, toolbarHeight, 0, false)

	// Apply the initial status so the banner row is coherent before any
	// feed value arrives.
	h.SetStatus(chat.StatusConnected)
	return h
}

// buildLeading resolves the leading control: explicit override first, then
// the back button when enabled, else a zero-width placeholder.
func (h *ChannelHeader) buildLeading() {
	switch {
	case h.opts.Leading != nil:
		h.leading = h.opts.Leading
	case h.opts.ShowBackButton:
		h.back = NewBackButton(h.th, h.opts.OnBack)
		h.back.SetBackgroundColor(h.background)
		h.leading = h.back
	default:
		placeholder := tview.NewBox()
		placeholder.SetBackgroundColor(h.background)
		h.leading = placeholder
	}
}

func (h *ChannelHeader) leadingWidth() int {
	if h.opts.Leading != nil && h.opts.LeadingWidth > 0 {
		return h.opts.LeadingWidth
	}
	if h.opts.Leading == nil && !h.opts.ShowBackButton {
		// Placeholder takes no columns at all.
		return 0
	}
	return defaultLeadingWidth
}

// buildTitleBlock stacks title, a one-row gap and subtitle, centered, and
// makes the whole region tappable.
func (h *ChannelHeader) buildTitleBlock() {
	if h.opts.Title != nil {
		h.title = h.opts.Title
	} else {
		name := tview.NewTextView().
			SetTextAlign(tview.AlignCenter).
			SetTextColor(h.th.Title).
			SetText(h.channel.DisplayName())
		name.SetBackgroundColor(h.background)
		h.title = name
	}

	if h.opts.Subtitle != nil {
		h.subtitle = h.opts.Subtitle
	} else {
		h.info = NewChannelInfo(h.channel, h.th, h.tr, h.opts.ShowTypingIndicator)
		h.info.SetBackgroundColor(h.background)
		h.subtitle = h.info
	}

	h.titleBlock = tview.NewFlex().SetDirection(tview.FlexRow)
	h.titleBlock.SetBackgroundColor(h.background)
	h.titleBlock.AddItem(h.title, 1, 0, false)
	h.titleBlock.AddItem(nil, 1, 0, false)
	h.titleBlock.AddItem(h.subtitle, 1, 0, false)

	h.titleBlock.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action == tview.MouseLeftClick {
			h.titleTap()
			return action, nil
		}
		return action, event
	})
}

// titleTap invokes the configured title callback, if any.
func (h *ChannelHeader) titleTap() {
	if h.opts.OnTitleTap != nil {
		h.opts.OnTitleTap()
	}
}

// buildActions resolves the trailing widgets: explicit list verbatim, else
// a single avatar for the channel bound to the image callback.
func (h *ChannelHeader) buildActions() {
	if h.opts.Actions != nil {
		h.actions = h.opts.Actions
		return
	}
	h.avatar = NewAvatar(h.channel.Name, h.th, h.opts.OnImageTap)
	h.actions = []tview.Primitive{h.avatar}
}

func (h *ChannelHeader) actionWidth() int {
	if h.opts.Actions != nil && h.opts.ActionsWidth > 0 {
		return h.opts.ActionsWidth
	}
	return h.th.AvatarWidth
}

// SetStatus applies a connection status to the banner row. The localized
// label is computed for every status, including connected, whose banner is
// then hidden: success banners are transient and auto-hide while the label
// stays available to callers.
func (h *ChannelHeader) SetStatus(st chat.Status) {
	h.status = st

	var implied bool
	var bg tcell.Color
	switch st {
	case chat.StatusConnected:
		h.bannerLabel = h.tr.Get(i18n.KeyConnected)
		implied = false
	case chat.StatusConnecting:
		h.bannerLabel = h.tr.Get(i18n.KeyReconnecting)
		implied = true
		bg = h.th.Warning
	default:
		h.bannerLabel = h.tr.Get(i18n.KeyDisconnected)
		implied = true
		bg = h.th.Danger
	}

	h.bannerVisible = h.opts.ShowConnectionBanner && implied
	if h.bannerVisible {
		h.banner.SetText(h.bannerLabel)
		h.banner.SetTextColor(h.th.BannerText)
		h.banner.SetBackgroundColor(bg)
	} else {
		h.banner.SetText("")
		h.banner.SetBackgroundColor(h.background)
	}
}

// Bind subscribes the header to a status feed for its mounted lifetime.
// The feed's immediate delivery is applied synchronously; later
// transitions hop onto the application's draw queue. Call Stop on
// teardown.
func (h *ChannelHeader) Bind(feed *chat.StatusFeed, app *tview.Application) {
	h.Stop()
	first := true
	h.cancel = feed.Subscribe(func(st chat.Status) {
		if first {
			first = false
			h.SetStatus(st)
			return
		}
		app.QueueUpdateDraw(func() {
			h.SetStatus(st)
		})
	})
}

// Stop cancels the status subscription, if any. Safe to call repeatedly.
func (h *ChannelHeader) Stop() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// Height returns the fixed row count the header occupies, independent of
// configuration and status.
func (h *ChannelHeader) Height() int {
	return HeaderHeight
}

// Back returns the default back button, or nil when a leading override was
// supplied or the back button is disabled. Callers use it to update the
// unread badge.
func (h *ChannelHeader) Back() *BackButton {
	return h.back
}

// Info returns the default subtitle widget, or nil when a subtitle
// override was supplied. Callers feed it typing and channel updates.
func (h *ChannelHeader) Info() *ChannelInfo {
	return h.info
}
