package components

import (
	"testing"

	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/i18n"
	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/theme"
)

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New("en", "")
	if err != nil {
		t.Fatalf("failed to build translator: %v", err)
	}
	return tr
}

func testChannel() *models.Channel {
	return &models.Channel{
		Name:    "general",
		Topic:   "Company-wide chatter",
		Members: 5,
		Online:  3,
	}
}

func TestChannelHeaderStatusBanner(t *testing.T) {
	tests := []struct {
		name        string
		status      chat.Status
		wantLabel   string
		wantVisible bool
	}{
		{"connected hides banner but keeps label", chat.StatusConnected, "Connected", false},
		{"connecting shows reconnecting banner", chat.StatusConnecting, "Reconnecting...", true},
		{"disconnected shows disconnected banner", chat.StatusDisconnected, "Disconnected", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewChannelHeader(testChannel(), theme.Get(theme.NameDefault), newTestTranslator(t), HeaderOptions{
				ShowConnectionBanner: true,
			})
			h.SetStatus(tt.status)

			if h.bannerLabel != tt.wantLabel {
				t.Errorf("bannerLabel = %q, want %q", h.bannerLabel, tt.wantLabel)
			}
			if h.bannerVisible != tt.wantVisible {
				t.Errorf("bannerVisible = %v, want %v", h.bannerVisible, tt.wantVisible)
			}
		})
	}
}

func TestChannelHeaderBannerDisabled(t *testing.T) {
	h := NewChannelHeader(testChannel(), theme.Get(theme.NameDefault), newTestTranslator(t), HeaderOptions{
		ShowConnectionBanner: false,
	})

	for _, st := range []chat.Status{chat.StatusConnected, chat.StatusConnecting, chat.StatusDisconnected} {
		h.SetStatus(st)
		if h.bannerVisible {
			t.Errorf("status %s: banner visible with ShowConnectionBanner=false", st)
		}
		if h.bannerLabel == "" {
			t.Errorf("status %s: label should still be computed", st)
		}
	}
}

func TestChannelHeaderInitialStatus(t *testing.T) {
	h := NewChannelHeader(testChannel(), theme.Get(theme.NameDefault), newTestTranslator(t), HeaderOptions{
		ShowConnectionBanner: true,
	})

	if h.status != chat.StatusConnected {
		t.Errorf("initial status = %v, want connected", h.status)
	}
	if h.bannerVisible {
		t.Error("banner should start hidden")
	}
}

func TestChannelHeaderLeading(t *testing.T) {
	th := theme.Get(theme.NameDefault)

	t.Run("back button when enabled", func(t *testing.T) {
		h := NewChannelHeader(testChannel(), th, newTestTranslator(t), HeaderOptions{
			ShowBackButton: true,
		})
		if h.Back() == nil {
			t.Fatal("Back() = nil, want back button")
		}
		if h.leading != tview.Primitive(h.back) {
			t.Error("leading should be the back button")
		}
		if got := h.leadingWidth(); got != defaultLeadingWidth {
			t.Errorf("leadingWidth() = %d, want %d", got, defaultLeadingWidth)
		}
	})

	t.Run("override bypasses back button", func(t *testing.T) {
		custom := tview.NewTextView()
		h := NewChannelHeader(testChannel(), th, newTestTranslator(t), HeaderOptions{
			ShowBackButton: true,
			Leading:        custom,
			LeadingWidth:   10,
		})
		if h.Back() != nil {
			t.Error("Back() should be nil with a leading override")
		}
		if h.leading != tview.Primitive(custom) {
			t.Error("leading should be the override primitive")
		}
		if got := h.leadingWidth(); got != 10 {
			t.Errorf("leadingWidth() = %d, want 10", got)
		}
	})

	t.Run("placeholder takes no columns", func(t *testing.T) {
		h := NewChannelHeader(testChannel(), th, newTestTranslator(t), HeaderOptions{})
		if h.Back() != nil {
			t.Error("Back() should be nil when disabled")
		}
		if got := h.leadingWidth(); got != 0 {
			t.Errorf("leadingWidth() = %d, want 0", got)
		}
	})
}

func TestChannelHeaderOverrides(t *testing.T) {
	th := theme.Get(theme.NameDefault)

	t.Run("title and subtitle", func(t *testing.T) {
		title := tview.NewTextView()
		subtitle := tview.NewTextView()
		h := NewChannelHeader(testChannel(), th, newTestTranslator(t), HeaderOptions{
			Title:    title,
			Subtitle: subtitle,
		})
		if h.title != tview.Primitive(title) {
			t.Error("title override not used")
		}
		if h.Info() != nil {
			t.Error("Info() should be nil with a subtitle override")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		h := NewChannelHeader(testChannel(), th, newTestTranslator(t), HeaderOptions{})
		if h.Info() == nil {
			t.Error("Info() should return the default subtitle widget")
		}
		if h.avatar == nil {
			t.Error("default actions should hold an avatar")
		}
	})

	t.Run("actions", func(t *testing.T) {
		actions := []tview.Primitive{tview.NewTextView(), tview.NewTextView()}
		h := NewChannelHeader(testChannel(), th, newTestTranslator(t), HeaderOptions{
			Actions:      actions,
			ActionsWidth: 8,
		})
		if h.avatar != nil {
			t.Error("avatar should not be built with an actions override")
		}
		if len(h.actions) != 2 {
			t.Errorf("len(actions) = %d, want 2", len(h.actions))
		}
		if got := h.actionWidth(); got != 8 {
			t.Errorf("actionWidth() = %d, want 8", got)
		}
	})
}

func TestChannelHeaderTitleTap(t *testing.T) {
	taps := 0
	h := NewChannelHeader(testChannel(), theme.Get(theme.NameDefault), newTestTranslator(t), HeaderOptions{
		OnTitleTap: func() { taps++ },
	})

	h.titleTap()
	if taps != 1 {
		t.Errorf("taps = %d, want 1", taps)
	}

	// Nil callback must be a no-op, not a panic
	h2 := NewChannelHeader(testChannel(), theme.Get(theme.NameDefault), newTestTranslator(t), HeaderOptions{})
	h2.titleTap()
}

func TestChannelHeaderHeight(t *testing.T) {
	th := theme.Get(theme.NameDefault)
	tr := newTestTranslator(t)

	opts := []HeaderOptions{
		{},
		{ShowBackButton: true, ShowTypingIndicator: true, ShowConnectionBanner: true},
		{Leading: tview.NewTextView(), Title: tview.NewTextView(), Actions: []tview.Primitive{tview.NewTextView()}},
	}

	for _, o := range opts {
		h := NewChannelHeader(testChannel(), th, tr, o)
		for _, st := range []chat.Status{chat.StatusConnected, chat.StatusConnecting, chat.StatusDisconnected} {
			h.SetStatus(st)
			if h.Height() != HeaderHeight {
				t.Fatalf("Height() = %d, want %d", h.Height(), HeaderHeight)
			}
		}
	}
}

func TestChannelHeaderBind(t *testing.T) {
	h := NewChannelHeader(testChannel(), theme.Get(theme.NameDefault), newTestTranslator(t), HeaderOptions{
		ShowConnectionBanner: true,
	})

	feed := chat.NewStatusFeed(chat.StatusConnecting)
	h.Bind(feed, tview.NewApplication())

	// The feed's current value is applied synchronously on bind.
	if h.status != chat.StatusConnecting {
		t.Errorf("status after bind = %v, want connecting", h.status)
	}
	if !h.bannerVisible {
		t.Error("banner should be visible after binding a connecting feed")
	}

	h.Stop()
	h.Stop() // repeated stop is safe
}
