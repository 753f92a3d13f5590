package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/config"
	"github.com/natter-io/natter/internal/i18n"
	"github.com/natter-io/natter/internal/logging"
	"github.com/natter-io/natter/internal/plugins"
	"github.com/natter-io/natter/internal/store"
	"github.com/natter-io/natter/internal/theme"
	"github.com/natter-io/natter/internal/ui"
)

// Options carries the command line settings into the application.
type Options struct {
	ServerURL  string
	ConfigPath string
	Profile    string
	ReadOnly   bool
	LogLevel   string
}

// dataDir returns the writable state directory, empty when the home
// directory cannot be resolved (logging is then disabled).
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "natter")
}

// Run starts the natter application and blocks until the UI exits.
func Run(opts Options) error {
	log, err := logging.New(dataDir(), opts.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Close()

	cfg, err := config.Load(opts.ConfigPath, opts.ServerURL)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Profile != "" {
		if err := cfg.SetProfile(opts.Profile); err != nil {
			return err
		}
	}

	th := theme.Get(cfg.GetTheme())

	tr, err := i18n.New(cfg.GetLocale(), config.LocalesDir())
	if err != nil {
		return fmt.Errorf("failed to load locale: %w", err)
	}

	client, err := chat.NewClient(cfg.CurrentProfile(), log.WithComponent("chat"), opts.ReadOnly)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()

	storePath, err := store.DefaultPath()
	if err != nil {
		return fmt.Errorf("failed to locate state store: %w", err)
	}
	st, err := store.Open(storePath, cfg.CurrentProfileName())
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer st.Close()

	pluginMgr := plugins.NewManager(log.WithComponent("plugins"))
	if err := pluginMgr.LoadPlugins(); err != nil {
		// Plugins are optional; the activity view explains how to set
		// them up when none are configured.
		log.Warn("loading plugins failed", "error", err)
	}

	app := tview.NewApplication()
	app.EnableMouse(true)

	uiManager := ui.NewUIManager(app, client, cfg, st, storePath, pluginMgr, th, tr, log.WithComponent("ui"))

	log.Info("starting natter",
		"profile", cfg.CurrentProfileName(),
		"server", cfg.CurrentProfile().Server,
		"read_only", opts.ReadOnly)

	if err := uiManager.Start(); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}

	return nil
}
