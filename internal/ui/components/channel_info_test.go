package components

import (
	"testing"

	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/theme"
)

func TestChannelInfoLine(t *testing.T) {
	th := theme.Get(theme.NameDefault)
	tr := newTestTranslator(t)

	ch := &models.Channel{Name: "general", Members: 5, Online: 3}

	tests := []struct {
		name       string
		showTyping bool
		typers     []string
		want       string
	}{
		{"member count", true, nil, "5 members, 3 online"},
		{"one typer", true, []string{"ava"}, "ava is typing..."},
		{"many typers", true, []string{"ava", "ben", "carol"}, "3 people are typing..."},
		{"typing disabled", false, []string{"ava"}, "5 members, 3 online"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := NewChannelInfo(ch, th, tr, tt.showTyping)
			ci.SetTyping(tt.typers)
			if got := ci.line(); got != tt.want {
				t.Errorf("line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChannelInfoSetChannel(t *testing.T) {
	ci := NewChannelInfo(&models.Channel{Name: "general", Members: 1}, theme.Get(theme.NameDefault), newTestTranslator(t), false)

	ci.SetChannel(&models.Channel{Name: "general", Members: 8, Online: 2})
	if got := ci.line(); got != "8 members, 2 online" {
		t.Errorf("line() after SetChannel = %q", got)
	}
}
