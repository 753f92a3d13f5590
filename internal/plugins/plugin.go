package plugins

import (
	"github.com/natter-io/natter/internal/models"
)

// MetricsPlugin is the interface all metrics plugins must implement
type MetricsPlugin interface {
	// Name returns the plugin name
	Name() string

	// Configure initializes the plugin with config
	Configure(config *models.PluginConfig) error

	// ChannelMetrics fetches metrics scoped to one channel
	ChannelMetrics(channel string, timeRange string) (*models.MetricsData, error)

	// ServerMetrics fetches fleet-wide chat metrics
	ServerMetrics(timeRange string) (*models.MetricsData, error)

	// HealthCheck verifies the plugin is working
	HealthCheck() error

	// IsEnabled returns whether the plugin is enabled
	IsEnabled() bool
}
