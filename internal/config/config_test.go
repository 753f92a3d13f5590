package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("NATTER_TEST_DIR", "/opt/natter")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("no home dir: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		configDir string
		want      string
	}{
		{"empty", "", "/etc/natter", ""},
		{"absolute", "/etc/creds.creds", "/etc/natter", "/etc/creds.creds"},
		{"env var", "$NATTER_TEST_DIR/creds.creds", "", "/opt/natter/creds.creds"},
		{"tilde", "~/creds.creds", "", filepath.Join(home, "creds.creds")},
		{"bare tilde", "~", "", home},
		{"relative to config dir", "./creds.creds", "/etc/natter", "/etc/natter/creds.creds"},
		{"parent relative", "../shared/creds.creds", "/etc/natter", "/etc/shared/creds.creds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.configDir)
			if err != nil {
				t.Fatalf("expandPath: %v", err)
			}
			if got != tt.want {
				t.Errorf("expandPath(%q, %q) = %q, want %q", tt.path, tt.configDir, got, tt.want)
			}
		})
	}
}

func TestDefaultUsername(t *testing.T) {
	t.Setenv("NATTER_USER", "ava")
	t.Setenv("USER", "system-user")
	if got := defaultUsername(); got != "ava" {
		t.Errorf("defaultUsername = %q, want ava", got)
	}

	t.Setenv("NATTER_USER", "")
	if got := defaultUsername(); got != "system-user" {
		t.Errorf("defaultUsername = %q, want system-user", got)
	}

	t.Setenv("USER", "")
	if got := defaultUsername(); got != "guest" {
		t.Errorf("defaultUsername = %q, want guest", got)
	}
}

func TestLoadFromCLI(t *testing.T) {
	cfg, err := Load("", "nats://demo:4222")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GetConfigSource() != SourceCLI {
		t.Errorf("source = %v, want cli", cfg.GetConfigSource())
	}
	if cfg.CurrentProfile().Server != "nats://demo:4222" {
		t.Errorf("server = %q", cfg.CurrentProfile().Server)
	}
	if cfg.CurrentProfileName() != "cli" {
		t.Errorf("profile name = %q", cfg.CurrentProfileName())
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("NATTER_TOKEN", "s3cret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `profiles:
  - name: work
    server: nats://work:4222
    username: ava
    token: $NATTER_TOKEN
    creds: ./work.creds
  - name: home
    server: nats://home:4222
default_profile: work
refresh_interval: 5s
theme: dracula
locale: de
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GetConfigSource() != SourceConfigFile {
		t.Errorf("source = %v, want config-file", cfg.GetConfigSource())
	}
	if cfg.GetConfigSourcePath() != path {
		t.Errorf("source path = %q, want %q", cfg.GetConfigSourcePath(), path)
	}
	if cfg.CurrentProfileName() != "work" {
		t.Errorf("current profile = %q, want work", cfg.CurrentProfileName())
	}

	p := cfg.CurrentProfile()
	if p.Token != "s3cret" {
		t.Errorf("token not expanded: %q", p.Token)
	}
	if want := filepath.Join(dir, "work.creds"); p.Creds != want {
		t.Errorf("creds = %q, want %q", p.Creds, want)
	}

	// The second profile has no username, so the default applies
	if cfg.Profiles[1].Username == "" {
		t.Error("missing username should be filled with the default")
	}

	if cfg.GetRefreshInterval() != 5*time.Second {
		t.Errorf("refresh interval = %v, want 5s", cfg.GetRefreshInterval())
	}
	if cfg.GetTheme() != "dracula" {
		t.Errorf("theme = %q", cfg.GetTheme())
	}
	if cfg.GetLocale() != "de" {
		t.Errorf("locale = %q", cfg.GetLocale())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Theme = "light"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != "light" {
		t.Errorf("theme after round trip = %q", loaded.Theme)
	}
	if loaded.CurrentProfileName() != "local" {
		t.Errorf("profile after round trip = %q", loaded.CurrentProfileName())
	}
}

func TestProfileManagement(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.AddProfile("staging", "nats://staging:4222", "ava"); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}
	if err := cfg.AddProfile("staging", "nats://other:4222", ""); err == nil {
		t.Error("duplicate AddProfile should fail")
	}

	if err := cfg.SetProfile("staging"); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if cfg.CurrentProfileName() != "staging" {
		t.Errorf("current = %q, want staging", cfg.CurrentProfileName())
	}
	if err := cfg.SetProfile("nope"); err == nil {
		t.Error("SetProfile on unknown name should fail")
	}

	// Removing the active profile falls back to the first remaining one
	if err := cfg.RemoveProfile("staging"); err != nil {
		t.Fatalf("RemoveProfile: %v", err)
	}
	if cfg.CurrentProfileName() != "local" {
		t.Errorf("current after removal = %q, want local", cfg.CurrentProfileName())
	}
	if err := cfg.RemoveProfile("nope"); err == nil {
		t.Error("RemoveProfile on unknown name should fail")
	}
}

func TestGetRefreshIntervalFallback(t *testing.T) {
	cfg := &Config{RefreshInterval: "garbage"}
	if cfg.GetRefreshInterval() != 2*time.Second {
		t.Errorf("fallback interval = %v, want 2s", cfg.GetRefreshInterval())
	}
}
