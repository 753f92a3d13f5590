package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/config"
	"github.com/natter-io/natter/internal/i18n"
	"github.com/natter-io/natter/internal/logging"
	"github.com/natter-io/natter/internal/plugins"
	"github.com/natter-io/natter/internal/store"
	"github.com/natter-io/natter/internal/theme"
	"github.com/natter-io/natter/internal/ui/components"
)

// UIManager owns the tview application, the page stack and every view.
// Views reach shared collaborators (client, store, theme, translator)
// through their back-reference to the manager.
type UIManager struct {
	app           *tview.Application
	client        *chat.Client
	config        *config.Config
	store         *store.Store
	storePath     string
	pluginManager *plugins.Manager
	theme         *theme.Theme
	translator    *i18n.Translator
	log           *logging.Logger
	readOnly      bool

	pages     *tview.Pages
	statusBar *components.StatusBar
	footer    *components.Footer

	profileView       *ProfileView
	channelListView   *ChannelListView
	chatView          *ChatView
	channelDetailView *ChannelDetailView
	memberDetailView  *MemberDetailView
	describeView      *DescribeView
	searchView        *SearchView
	channelEditView   *ChannelEditView
	prefsEditView     *PrefsEditView
	activityView      *ActivityView
	helpView          *HelpView

	currentPage  string
	updateTicker *time.Ticker
	statusCancel func()
}

// typingPages are pages where the user is entering text; global rune
// shortcuts stay out of the way there.
var typingPages = map[string]bool{
	"chat":         true,
	"search":       true,
	"channel-edit": true,
	"prefs-edit":   true,
}

// NewUIManager wires the application together. The client must already be
// connected.
func NewUIManager(app *tview.Application, client *chat.Client, cfg *config.Config, st *store.Store, storePath string, pluginMgr *plugins.Manager, th *theme.Theme, tr *i18n.Translator, log *logging.Logger) *UIManager {
	if log == nil {
		log = logging.Nop()
	}
	ui := &UIManager{
		app:           app,
		client:        client,
		config:        cfg,
		store:         st,
		storePath:     storePath,
		pluginManager: pluginMgr,
		theme:         th,
		translator:    tr,
		log:           log,
		readOnly:      client.ReadOnly(),
		pages:         tview.NewPages(),
	}

	ui.initComponents()
	ui.setupPages()
	ui.setupKeybindings()
	ui.bindStatus()

	return ui
}

func (ui *UIManager) initComponents() {
	ui.statusBar = components.NewStatusBar(ui.theme)
	ui.footer = components.NewFooter(ui.theme)
	ui.updateStatusBar(ui.client.Status().Current())

	ui.profileView = NewProfileView(ui)
	ui.channelListView = NewChannelListView(ui)
	ui.chatView = NewChatView(ui)
	ui.channelDetailView = NewChannelDetailView(ui)
	ui.memberDetailView = NewMemberDetailView(ui)
	ui.describeView = NewDescribeView(ui)
	ui.searchView = NewSearchView(ui)
	ui.channelEditView = NewChannelEditView(ui)
	ui.prefsEditView = NewPrefsEditView(ui)
	ui.activityView = NewActivityView(ui)
	ui.helpView = NewHelpView(ui)
}

func (ui *UIManager) setupPages() {
	ui.pages.AddPage("channels", ui.channelListView.GetPrimitive(), true, true)
	ui.pages.AddPage("profiles", ui.profileView.GetPrimitive(), true, false)
	ui.pages.AddPage("chat", ui.chatView.GetPrimitive(), true, false)
	ui.pages.AddPage("channel-detail", ui.channelDetailView.GetPrimitive(), true, false)
	ui.pages.AddPage("member-detail", ui.memberDetailView.GetPrimitive(), true, false)
	ui.pages.AddPage("describe", ui.describeView.GetPrimitive(), true, false)
	ui.pages.AddPage("search", ui.searchView.GetPrimitive(), true, false)
	ui.pages.AddPage("channel-edit", ui.channelEditView.GetPrimitive(), true, false)
	ui.pages.AddPage("prefs-edit", ui.prefsEditView.GetPrimitive(), true, false)
	ui.pages.AddPage("activity", ui.activityView.GetPrimitive(), true, false)
}

func (ui *UIManager) setupKeybindings() {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			ui.app.Stop()
			return nil
		}

		// While the user is typing a message or filling a form, only the
		// quit key is global.
		if typingPages[ui.currentPage] {
			return event
		}

		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case '?':
				ui.ShowHelp()
				return nil
			case 'c':
				if ui.currentPage != "profiles" {
					ui.ShowProfiles()
					return nil
				}
			}
		}
		return event
	})
}

// bindStatus keeps the status bar in sync with the connection feed.
func (ui *UIManager) bindStatus() {
	if ui.statusCancel != nil {
		ui.statusCancel()
	}
	first := true
	ui.statusCancel = ui.client.Status().Subscribe(func(st chat.Status) {
		if first {
			first = false
			ui.updateStatusBar(st)
			return
		}
		ui.app.QueueUpdateDraw(func() {
			ui.updateStatusBar(st)
		})
	})
}

func (ui *UIManager) updateStatusBar(st chat.Status) {
	ui.statusBar.Update(ui.config.CurrentProfileName(), st, ui.readOnly)
}

// Start lays out the screen and runs the event loop until quit.
func (ui *UIManager) Start() error {
	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.statusBar, 1, 0, false).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.footer, 1, 0, false)

	ui.updateTicker = time.NewTicker(ui.config.GetRefreshInterval())
	go ui.autoRefreshLoop()

	ui.currentPage = "channels"
	ui.channelListView.Refresh()

	ui.app.SetRoot(layout, true).SetFocus(ui.pages)
	return ui.app.Run()
}

func (ui *UIManager) autoRefreshLoop() {
	for range ui.updateTicker.C {
		ui.app.QueueUpdateDraw(func() {
			switch ui.currentPage {
			case "channels":
				ui.channelListView.Refresh()
			case "channel-detail":
				ui.channelDetailView.Refresh()
			case "describe":
				ui.describeView.Refresh()
			case "chat":
				// Live messages arrive by subscription; the ticker only
				// drives the typing indicator expiry and counters.
				ui.chatView.Tick()
			}
		})
	}
}

// ShowProfiles displays the profile selection view.
func (ui *UIManager) ShowProfiles() {
	ui.currentPage = "profiles"
	ui.pages.SwitchToPage("profiles")
	ui.profileView.Refresh()
	ui.app.SetFocus(ui.profileView.GetPrimitive())
}

// ShowChannelList displays the channel list.
func (ui *UIManager) ShowChannelList() {
	ui.chatView.Stop()
	ui.currentPage = "channels"
	ui.pages.SwitchToPage("channels")
	ui.channelListView.Refresh()
	ui.app.SetFocus(ui.channelListView.GetPrimitive())
}

// ShowChat opens a channel's conversation.
func (ui *UIManager) ShowChat(channel string) {
	ui.currentPage = "chat"
	ui.chatView.SetChannel(channel)
	ui.pages.SwitchToPage("chat")
	ui.app.SetFocus(ui.chatView.GetPrimitive())
}

// ShowChannelDetail displays one channel's info and member list.
func (ui *UIManager) ShowChannelDetail(channel string) {
	ui.chatView.Stop()
	ui.currentPage = "channel-detail"
	ui.channelDetailView.SetChannel(channel)
	ui.pages.SwitchToPage("channel-detail")
	ui.app.SetFocus(ui.channelDetailView.GetPrimitive())
}

// ShowMemberDetail displays one member's presence detail.
func (ui *UIManager) ShowMemberDetail(channel, user string) {
	ui.currentPage = "member-detail"
	ui.memberDetailView.SetMember(channel, user)
	ui.pages.SwitchToPage("member-detail")
	ui.app.SetFocus(ui.memberDetailView.GetPrimitive())
}

// ShowDescribe displays the full-screen channel description.
func (ui *UIManager) ShowDescribe(channel string) {
	ui.currentPage = "describe"
	ui.describeView.SetChannel(channel)
	ui.pages.SwitchToPage("describe")
	ui.app.SetFocus(ui.describeView.GetPrimitive())
}

// ShowSearch displays the message search form.
func (ui *UIManager) ShowSearch() {
	ui.searchView.Show()
}

// ShowChannelEdit displays the channel settings form.
func (ui *UIManager) ShowChannelEdit(channel string) {
	ui.channelEditView.SetChannel(channel)
	ui.channelEditView.Show()
}

// ShowPrefsEdit displays the notification preferences form.
func (ui *UIManager) ShowPrefsEdit(channel string) {
	ui.prefsEditView.SetChannel(channel)
	ui.prefsEditView.Show()
}

// ShowActivity displays the metrics graphs for a channel, or server-wide
// when channel is empty.
func (ui *UIManager) ShowActivity(channel string) {
	ui.currentPage = "activity"
	ui.activityView.SetChannel(channel)
	ui.pages.SwitchToPage("activity")
	ui.app.SetFocus(ui.activityView.GetPrimitive())
}

// ShowInputDialog displays a single-field input dialog.
func (ui *UIManager) ShowInputDialog(title, label, initialValue string, onSubmit func(string)) {
	modal := components.InputModal(title, label, initialValue, onSubmit, func() {
		ui.CloseModal()
	})
	ui.ShowModal(modal)
}

// ShowHelp displays the keybinding reference.
func (ui *UIManager) ShowHelp() {
	ui.pages.AddPage("help-modal", components.Center(ui.helpView.GetPrimitive(), 80, 30), true, true)
}

// ShowModal displays a modal dialog on top of the current page.
func (ui *UIManager) ShowModal(modal tview.Primitive) {
	ui.pages.AddPage("modal", modal, true, true)
}

// CloseModal closes any open modal.
func (ui *UIManager) CloseModal() {
	ui.pages.RemovePage("modal")
	ui.pages.RemovePage("help-modal")
}

// ShowError displays an error message.
func (ui *UIManager) ShowError(message string) {
	modal := components.ErrorModal(ui.theme, message, func() {
		ui.CloseModal()
	})
	ui.ShowModal(modal)
}

// SwitchProfile reconnects to a different chat server profile and reopens
// the profile-scoped state store.
func (ui *UIManager) SwitchProfile(name string) error {
	ui.chatView.Stop()

	if err := ui.config.SetProfile(name); err != nil {
		return err
	}

	if ui.statusCancel != nil {
		ui.statusCancel()
		ui.statusCancel = nil
	}
	ui.client.Close()

	newClient, err := chat.NewClient(ui.config.CurrentProfile(), ui.log.WithComponent("chat"), ui.readOnly)
	if err != nil {
		return fmt.Errorf("failed to connect to profile %s: %w", name, err)
	}
	ui.client = newClient
	ui.bindStatus()

	if ui.store != nil {
		ui.store.Close()
	}
	newStore, err := store.Open(ui.storePath, name)
	if err != nil {
		return fmt.Errorf("failed to reopen state store: %w", err)
	}
	ui.store = newStore

	ui.log.Info("switched profile", "profile", name)
	return nil
}
