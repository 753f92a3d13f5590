package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/guptarohit/asciigraph"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/models"
)

// ActivityView displays time-series activity graphs for one channel, or
// server-wide when no channel is set. Data comes from the configured
// metrics plugin.
type ActivityView struct {
	ui          *UIManager
	mainFlex    *tview.Flex
	headerView  *tview.TextView
	graphPanels map[string]*tview.TextView
	channelName string
	timeRange   string
	metricsData *models.MetricsData
	loading     bool
}

// NewActivityView creates a new activity view.
func NewActivityView(ui *UIManager) *ActivityView {
	view := &ActivityView{
		ui:          ui,
		timeRange:   "1h",
		graphPanels: make(map[string]*tview.TextView),
	}

	view.headerView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	panelNames := []string{
		"message_rate", "channel_messages", "channel_bytes",
		"active_members", "connected_clients", "delivery_latency_p95",
	}

	for _, name := range panelNames {
		panel := tview.NewTextView().
			SetDynamicColors(true).
			SetScrollable(false).
			SetWordWrap(false)
		panel.SetBorder(true)
		view.graphPanels[name] = panel
	}

	// Grid layout: 2 rows x 3 columns
	row1 := tview.NewFlex().
		AddItem(view.graphPanels["message_rate"], 0, 1, false).
		AddItem(view.graphPanels["channel_messages"], 0, 1, false).
		AddItem(view.graphPanels["channel_bytes"], 0, 1, false)

	row2 := tview.NewFlex().
		AddItem(view.graphPanels["active_members"], 0, 1, false).
		AddItem(view.graphPanels["connected_clients"], 0, 1, false).
		AddItem(view.graphPanels["delivery_latency_p95"], 0, 1, false)

	view.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view.headerView, 3, 0, false).
		AddItem(row1, 0, 1, false).
		AddItem(row2, 0, 1, false)

	view.setupKeybindings()

	return view
}

func (v *ActivityView) setupKeybindings() {
	v.mainFlex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			v.ui.ShowChannelList()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'r':
				v.Refresh()
				return nil
			case '1':
				v.timeRange = "1h"
				v.Refresh()
				return nil
			case '6':
				v.timeRange = "6h"
				v.Refresh()
				return nil
			case '2':
				v.timeRange = "24h"
				v.Refresh()
				return nil
			}
		}
		return event
	})
}

// SetChannel sets the channel to graph. Empty means server-wide.
func (v *ActivityView) SetChannel(channelName string) {
	v.channelName = channelName
	v.Refresh()
}

// Refresh fetches and displays the activity graphs.
func (v *ActivityView) Refresh() {
	if v.loading {
		return
	}
	v.loading = true

	for _, panel := range v.graphPanels {
		panel.SetText("\n[yellow]Loading...[white]")
	}

	go func() {
		pluginName := v.ui.config.CurrentProfile().MetricsPlugin
		if pluginName == "" {
			v.ui.app.QueueUpdateDraw(func() {
				v.loading = false
				v.showNoPluginMessage()
			})
			return
		}

		plugin, pluginErr := v.ui.pluginManager.GetPlugin(pluginName)
		if pluginErr != nil {
			v.ui.app.QueueUpdateDraw(func() {
				v.loading = false
				v.showPluginError(pluginErr)
			})
			return
		}

		var metricsData *models.MetricsData
		var err error
		if v.channelName != "" {
			metricsData, err = plugin.ChannelMetrics(v.channelName, v.timeRange)
		} else {
			metricsData, err = plugin.ServerMetrics(v.timeRange)
		}

		v.ui.app.QueueUpdateDraw(func() {
			v.loading = false

			if err != nil {
				v.showError(err)
				return
			}

			v.metricsData = metricsData
			v.renderGraphs()
		})
	}()
}

func (v *ActivityView) renderGraphs() {
	if v.metricsData == nil {
		v.showNoData()
		return
	}

	scope := "server-wide"
	if v.metricsData.Channel != "" {
		scope = "#" + v.metricsData.Channel
	}
	header := fmt.Sprintf("[yellow]Activity:[white] %s  [yellow]Time Range:[white] %s  [yellow]Updated:[white] %s",
		scope, v.timeRange, v.metricsData.FetchTime.Format("15:04:05"))
	v.headerView.SetText(header)

	panelConfigs := map[string]struct {
		title string
		key   string
	}{
		"message_rate":         {title: "Message Rate (msg/s)", key: "message_rate"},
		"channel_messages":     {title: "History Size (messages)", key: "channel_messages"},
		"channel_bytes":        {title: "History Size (bytes)", key: "channel_bytes"},
		"active_members":       {title: "Active Members", key: "active_members"},
		"connected_clients":    {title: "Connected Clients", key: "connected_clients"},
		"delivery_latency_p95": {title: "Delivery Latency p95 (ms)", key: "delivery_latency_p95"},
	}

	for panelName, config := range panelConfigs {
		panel := v.graphPanels[panelName]
		if series, ok := v.metricsData.Metrics[config.key]; ok && len(series) > 0 {
			v.renderPanelGraph(panel, config.title, series)
		} else {
			panel.SetTitle(fmt.Sprintf(" %s ", config.title))
			panel.SetText("\n[gray]No data[white]")
		}
	}

	v.ui.footer.Update("r: Refresh  1/6/2: Range 1h/6h/24h  Esc: Back")
}

func (v *ActivityView) showNoData() {
	for _, panel := range v.graphPanels {
		panel.SetText("\n[gray]No data[white]")
	}
}

func (v *ActivityView) renderPanelGraph(panel *tview.TextView, title string, series []models.MetricSeries) {
	panel.SetTitle(fmt.Sprintf(" %s ", title))

	if len(series) == 0 {
		panel.SetText("\n[gray]No data[white]")
		return
	}

	var output strings.Builder

	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}

		current := s.Points[len(s.Points)-1]
		max := current
		min := current
		sum := 0.0
		for _, p := range s.Points {
			if p > max {
				max = p
			}
			if p < min {
				min = p
			}
			sum += p
		}
		avg := sum / float64(len(s.Points))

		_, _, width, height := panel.GetInnerRect()

		// Width: account for Y-axis labels and margins
		graphWidth := width - 15
		if graphWidth < 30 {
			graphWidth = 30
		}
		if graphWidth > 100 {
			graphWidth = 100
		}

		// Height: leave room for title, series name, caption
		graphHeight := height - 5
		if graphHeight < 8 {
			graphHeight = 8
		}
		if graphHeight > 20 {
			graphHeight = 20
		}

		graph := asciigraph.Plot(s.Points,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("%s | ↑%s ↓%s ~%s",
				formatMetricValue(current),
				formatMetricValue(max),
				formatMetricValue(min),
				formatMetricValue(avg))))

		if len(series) > 1 || (s.Name != "" && s.Name != v.channelName) {
			output.WriteString(fmt.Sprintf("[cyan]%s[white]\n", s.Name))
		}
		output.WriteString(graph)
		output.WriteString("\n")
	}

	panel.SetText(output.String())
}

func (v *ActivityView) showNoPluginMessage() {
	v.headerView.SetText("[yellow]No Metrics Plugin Configured[white]")

	message := `

  To enable activity graphs:

  1. Create ~/.config/natter/plugins.yaml
  2. Add Prometheus URL and credentials
  3. Set metrics_plugin on the profile
`
	for _, panel := range v.graphPanels {
		panel.SetTitle(" Info ")
		panel.SetText(message)
	}
}

func (v *ActivityView) showPluginError(err error) {
	v.headerView.SetText("[red]Plugin Error[white]")
	message := fmt.Sprintf("\n%v", err)
	for _, panel := range v.graphPanels {
		panel.SetTitle(" Error ")
		panel.SetText(message)
	}
}

func (v *ActivityView) showError(err error) {
	v.headerView.SetText("[red]Failed to fetch activity data[white]")
	message := fmt.Sprintf("\n%v", err)
	for _, panel := range v.graphPanels {
		panel.SetTitle(" Error ")
		panel.SetText(message)
	}
}

// GetPrimitive returns the primitive for this view.
func (v *ActivityView) GetPrimitive() tview.Primitive {
	return v.mainFlex
}

// formatMetricValue formats large numbers to human-readable format.
func formatMetricValue(val float64) string {
	if val >= 1000000000 {
		return fmt.Sprintf("%.2fB", val/1000000000)
	} else if val >= 1000000 {
		return fmt.Sprintf("%.2fM", val/1000000)
	} else if val >= 1000 {
		return fmt.Sprintf("%.2fK", val/1000)
	} else if val >= 1 {
		return fmt.Sprintf("%.1f", val)
	} else {
		return fmt.Sprintf("%.3f", val)
	}
}
