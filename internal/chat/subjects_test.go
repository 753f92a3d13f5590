package chat

import "testing"

func TestValidateChannelName(t *testing.T) {
	valid := []string{"general", "dev-ops", "team_2", "a", "x1234567890123456789012345678901234567890123456x"}
	for _, name := range valid {
		if err := ValidateChannelName(name); err != nil {
			t.Errorf("ValidateChannelName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "General", "has space", "-leading", "_leading", "dots.not.allowed",
		"waytoolong_waytoolong_waytoolong_waytoolong_waytoo"}
	for _, name := range invalid {
		if err := ValidateChannelName(name); err == nil {
			t.Errorf("ValidateChannelName(%q) = nil, want error", name)
		}
	}
}

func TestStreamNaming(t *testing.T) {
	if got := StreamFor("general"); got != "CHAT_general" {
		t.Errorf("StreamFor = %q", got)
	}
	if got := ChannelFromStream("CHAT_general"); got != "general" {
		t.Errorf("ChannelFromStream = %q", got)
	}
	if got := ChannelFromStream("ORDERS"); got != "" {
		t.Errorf("ChannelFromStream on foreign stream = %q, want empty", got)
	}
}

func TestSubjects(t *testing.T) {
	if got := MsgSubject("general"); got != "chat.msg.general" {
		t.Errorf("MsgSubject = %q", got)
	}
	if got := TypingSubject("general"); got != "chat.typ.general" {
		t.Errorf("TypingSubject = %q", got)
	}
}

func TestPresenceKey(t *testing.T) {
	tests := []struct {
		channel, user string
		wantKey       string
	}{
		{"general", "ava", "general.ava"},
		{"general", "j.doe", "general.j_doe"},
	}

	for _, tt := range tests {
		key := presenceKey(tt.channel, tt.user)
		if key != tt.wantKey {
			t.Errorf("presenceKey(%q, %q) = %q, want %q", tt.channel, tt.user, key, tt.wantKey)
		}

		channel, _, ok := splitPresenceKey(key)
		if !ok || channel != tt.channel {
			t.Errorf("splitPresenceKey(%q) channel = %q, ok = %v", key, channel, ok)
		}
	}

	for _, bad := range []string{"", "nodot", ".leading", "trailing."} {
		if _, _, ok := splitPresenceKey(bad); ok {
			t.Errorf("splitPresenceKey(%q) ok = true, want false", bad)
		}
	}
}
