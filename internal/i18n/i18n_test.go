package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", "en"},
		{"en", "en"},
		{"es", "es"},
		{"es-MX", "es"},
		{"de-AT", "de"},
		{"fr", "en"}, // unsupported falls back
		{"not a tag", "en"},
	}

	for _, tt := range tests {
		tr, err := New(tt.locale, "")
		if err != nil {
			t.Fatalf("New(%q): %v", tt.locale, err)
		}
		if got := tr.Locale(); got != tt.want {
			t.Errorf("New(%q).Locale() = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestBuiltinStrings(t *testing.T) {
	tests := []struct {
		locale string
		key    string
		want   string
	}{
		{"en", KeyConnected, "Connected"},
		{"en", KeyDisconnected, "Disconnected"},
		{"es", KeyConnected, "Conectado"},
		{"de", KeyReconnecting, "Verbinde erneut..."},
	}

	for _, tt := range tests {
		tr, err := New(tt.locale, "")
		if err != nil {
			t.Fatalf("New(%q): %v", tt.locale, err)
		}
		if got := tr.Get(tt.key); got != tt.want {
			t.Errorf("%s/%s = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
}

func TestGetf(t *testing.T) {
	tr, err := New("en", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := tr.Getf(KeyTypingOne, "ava"); got != "ava is typing..." {
		t.Errorf("KeyTypingOne = %q", got)
	}
	if got := tr.Getf(KeyTypingMany, 3); got != "3 people are typing..." {
		t.Errorf("KeyTypingMany = %q", got)
	}
	if got := tr.Getf(KeyMemberCount, 5, 2); got != "5 members, 2 online" {
		t.Errorf("KeyMemberCount = %q", got)
	}
}

func TestUnknownKeyPassesThrough(t *testing.T) {
	tr, err := New("en", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tr.Get("no.such.key"); got != "no.such.key" {
		t.Errorf("unknown key = %q, want pass-through", got)
	}
}

func TestBundleOverride(t *testing.T) {
	dir := t.TempDir()
	bundle := "status.connected: Online\ncustom.key: Hello\n"
	if err := os.WriteFile(filepath.Join(dir, "en.yaml"), []byte(bundle), 0644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}

	tr, err := New("en", dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := tr.Get(KeyConnected); got != "Online" {
		t.Errorf("overridden key = %q, want Online", got)
	}
	if got := tr.Get("custom.key"); got != "Hello" {
		t.Errorf("bundle-only key = %q, want Hello", got)
	}
	// Keys the bundle does not mention keep their built-in value
	if got := tr.Get(KeyDisconnected); got != "Disconnected" {
		t.Errorf("untouched key = %q", got)
	}
}

func TestBundleDirMissing(t *testing.T) {
	if _, err := New("en", filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Errorf("missing bundle dir should not fail: %v", err)
	}
}

func TestLocales(t *testing.T) {
	got := Locales()
	if len(got) != 3 {
		t.Fatalf("Locales() = %v", got)
	}
}
