package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/natter-io/natter/internal/models"
)

// PrometheusPlugin implements the MetricsPlugin interface for Prometheus.
// It expects a Prometheus scraping the chat backend's exporter, which
// publishes the chat_* metric family.
type PrometheusPlugin struct {
	name     string
	config   *models.PluginConfig
	client   api.Client
	queryAPI v1.API
	enabled  bool
}

// NewPrometheusPlugin creates a new Prometheus plugin
func NewPrometheusPlugin(name string) *PrometheusPlugin {
	return &PrometheusPlugin{
		name:    name,
		enabled: false,
	}
}

// Name returns the plugin name
func (p *PrometheusPlugin) Name() string {
	return p.name
}

// Configure initializes the plugin
func (p *PrometheusPlugin) Configure(config *models.PluginConfig) error {
	p.config = config
	p.enabled = config.Enabled

	if !config.Enabled {
		return nil
	}

	// Create HTTP client with basic auth if provided
	roundTripper := api.DefaultRoundTripper
	if config.Username != "" || config.Password != "" {
		roundTripper = &basicAuthRoundTripper{
			username: config.Username,
			password: config.Password,
			next:     api.DefaultRoundTripper,
		}
	}

	// Create Prometheus API client
	client, err := api.NewClient(api.Config{
		Address:      config.URL,
		RoundTripper: roundTripper,
	})
	if err != nil {
		return fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	p.client = client
	p.queryAPI = v1.NewAPI(client)

	return nil
}

// basicAuthRoundTripper implements HTTP basic authentication
type basicAuthRoundTripper struct {
	username string
	password string
	next     http.RoundTripper
}

func (rt *basicAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.username != "" || rt.password != "" {
		req.SetBasicAuth(rt.username, rt.password)
	}
	return rt.next.RoundTrip(req)
}

// ChannelMetrics fetches metrics scoped to one channel
func (p *PrometheusPlugin) ChannelMetrics(channel string, timeRange string) (*models.MetricsData, error) {
	if !p.enabled {
		return nil, fmt.Errorf("plugin not enabled")
	}
	return p.fetch(channel, timeRange)
}

// ServerMetrics fetches fleet-wide chat metrics across all channels
func (p *PrometheusPlugin) ServerMetrics(timeRange string) (*models.MetricsData, error) {
	if !p.enabled {
		return nil, fmt.Errorf("plugin not enabled")
	}
	return p.fetch("", timeRange)
}

func (p *PrometheusPlugin) fetch(channel string, timeRange string) (*models.MetricsData, error) {
	// Parse time range
	duration, err := time.ParseDuration(timeRange)
	if err != nil {
		duration = time.Hour // Default 1 hour
	}

	end := time.Now()
	start := end.Add(-duration)

	metricsData := &models.MetricsData{
		Channel:   channel,
		FetchTime: time.Now(),
		Metrics:   make(map[string][]models.MetricSeries),
	}

	// Build all queries from config
	queries := p.buildQueries(channel)

	// Execute ALL queries dynamically
	for queryName, queryString := range queries {
		series, err := p.queryRange(queryString, start, end, duration/60)
		if err == nil && len(series) > 0 {
			metricsData.Metrics[queryName] = series
		}
	}

	return metricsData, nil
}

// queryRange executes a range query
func (p *PrometheusPlugin) queryRange(query string, start, end time.Time, step time.Duration) ([]models.MetricSeries, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, warnings, err := p.queryAPI.QueryRange(ctx, query, v1.Range{
		Start: start,
		End:   end,
		Step:  step,
	})

	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	if len(warnings) > 0 {
		// Warnings are non-fatal; results are still usable
	}

	// Convert Prometheus result to our MetricSeries
	return convertToMetricSeries(result), nil
}

// convertToMetricSeries converts Prometheus results to our format
func convertToMetricSeries(value model.Value) []models.MetricSeries {
	var series []models.MetricSeries

	if value.Type() != model.ValMatrix {
		return series
	}

	matrix := value.(model.Matrix)

	for _, sampleStream := range matrix {
		// Series are labeled per channel; fleet-wide series have no
		// channel label
		name := string(sampleStream.Metric["channel"])
		if name == "" {
			name = "all"
		}

		points := make([]float64, len(sampleStream.Values))
		times := make([]time.Time, len(sampleStream.Values))

		for i, sample := range sampleStream.Values {
			points[i] = float64(sample.Value)
			times[i] = sample.Timestamp.Time()
		}

		series = append(series, models.MetricSeries{
			Name:   name,
			Points: points,
			Times:  times,
		})
	}

	return series
}

// buildQueries builds all default queries with label filters applied.
// An empty channel matches every channel.
func (p *PrometheusPlugin) buildQueries(channel string) map[string]string {
	queries := make(map[string]string)

	// Build label filter string
	labelFilters := p.buildLabelFilters()
	if labelFilters != "" {
		labelFilters += ","
	}

	channelPattern := channel
	if channelPattern == "" {
		channelPattern = ".*"
	}

	// Default queries - all include label filters from config

	// 1. Message throughput per channel
	queries["message_rate"] = fmt.Sprintf(
		`sum(rate(chat_channel_messages_total{%schannel=~"%s"}[5m])) by (channel)`,
		labelFilters, channelPattern)

	// 2. Total messages per channel
	queries["channel_messages"] = fmt.Sprintf(
		`sum(chat_channel_messages_total{%schannel=~"%s"}) by (channel)`,
		labelFilters, channelPattern)

	// 3. History size (bytes)
	queries["channel_bytes"] = fmt.Sprintf(
		`sum(chat_channel_bytes{%schannel=~"%s"}) by (channel)`,
		labelFilters, channelPattern)

	// 4. Present members per channel
	queries["active_members"] = fmt.Sprintf(
		`sum(chat_channel_members{%schannel=~"%s"}) by (channel)`,
		labelFilters, channelPattern)

	// 5. Connected clients (server-wide)
	queries["connected_clients"] = fmt.Sprintf(
		`sum(chat_connected_clients{%sserver_id=~".*"})`,
		labelFilters)

	// 6. Delivery latency p95
	queries["delivery_latency_p95"] = fmt.Sprintf(
		`histogram_quantile(0.95, sum(rate(chat_delivery_latency_seconds_bucket{%schannel=~"%s"}[5m])) by (le))`,
		labelFilters, channelPattern)

	return queries
}

// buildLabelFilters creates label filter string from config
func (p *PrometheusPlugin) buildLabelFilters() string {
	if len(p.config.Labels) == 0 {
		return ""
	}

	filters := []string{}
	for key, value := range p.config.Labels {
		filters = append(filters, fmt.Sprintf(`%s="%s"`, key, value))
	}

	return strings.Join(filters, ",")
}

// HealthCheck verifies Prometheus is reachable
func (p *PrometheusPlugin) HealthCheck() error {
	if !p.enabled {
		return fmt.Errorf("plugin not enabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Simple query to check if Prometheus is alive
	_, _, err := p.queryAPI.Query(ctx, "up", time.Now())
	if err != nil {
		return fmt.Errorf("Prometheus health check failed: %s", err.Error())
	}

	return nil
}

// IsEnabled returns whether the plugin is enabled
func (p *PrometheusPlugin) IsEnabled() bool {
	return p.enabled
}
