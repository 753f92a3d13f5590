package plugins

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/natter-io/natter/internal/logging"
	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/plugins/prometheus"
)

// ErrNoPlugin is returned when a requested plugin is missing or disabled.
var ErrNoPlugin = errors.New("metrics plugin not available")

// Manager manages metrics plugins
type Manager struct {
	plugins map[string]MetricsPlugin
	log     *logging.Logger
}

// NewManager creates a new plugin manager
func NewManager(log *logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		plugins: make(map[string]MetricsPlugin),
		log:     log,
	}
}

// LoadPlugins loads plugin configurations and initializes plugins
func (m *Manager) LoadPlugins() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	pluginPath := filepath.Join(homeDir, ".config", "natter", "plugins.yaml")

	// Check if file exists
	if _, err := os.Stat(pluginPath); os.IsNotExist(err) {
		// No plugins configured - that's OK
		return nil
	}

	// Load plugin config
	data, err := os.ReadFile(pluginPath)
	if err != nil {
		return fmt.Errorf("failed to read plugins file: %w", err)
	}

	var pluginsConfig models.PluginsConfig
	if err := yaml.Unmarshal(data, &pluginsConfig); err != nil {
		return fmt.Errorf("failed to parse plugins file: %w", err)
	}

	// Initialize each plugin
	for _, config := range pluginsConfig.Plugins {
		if err := m.loadPlugin(&config); err != nil {
			m.log.Warn("skipping plugin", "plugin", config.Name, "error", err)
			continue
		}
		m.log.Info("loaded metrics plugin", "plugin", config.Name, "type", config.Type)
	}

	return nil
}

// loadPlugin loads a single plugin
func (m *Manager) loadPlugin(config *models.PluginConfig) error {
	var plugin MetricsPlugin

	switch config.Type {
	case "prometheus":
		plugin = prometheus.NewPrometheusPlugin(config.Name)
	default:
		return fmt.Errorf("unknown plugin type: %s", config.Type)
	}

	// Configure the plugin
	if err := plugin.Configure(config); err != nil {
		return fmt.Errorf("failed to configure plugin %s: %w", config.Name, err)
	}

	// Store the plugin
	m.plugins[config.Name] = plugin

	return nil
}

// GetPlugin returns a plugin by name
func (m *Manager) GetPlugin(name string) (MetricsPlugin, error) {
	plugin, exists := m.plugins[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s' not configured", ErrNoPlugin, name)
	}

	if !plugin.IsEnabled() {
		return nil, fmt.Errorf("%w: '%s' is disabled", ErrNoPlugin, name)
	}

	return plugin, nil
}

// HasPlugin checks if a plugin exists and is enabled
func (m *Manager) HasPlugin(name string) bool {
	plugin, exists := m.plugins[name]
	return exists && plugin.IsEnabled()
}
