package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/models"
)

// KV bucket names and presence TTL, matching what the client expects.
const (
	channelBucket  = "chat-channels"
	presenceBucket = "chat-presence"
	presenceTTL    = 90 * time.Second
)

// Prometheus metrics matching the chat_* family the prometheus plugin
// queries. Messages are a counter so rate() works; the rest are gauges.
var (
	channelMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_channel_messages_total",
			Help: "Total messages published to a channel",
		},
		[]string{"server_id", "channel"},
	)

	channelBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_channel_bytes",
			Help: "Bytes of history stored for a channel",
		},
		[]string{"server_id", "channel"},
	)

	channelMembers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_channel_members",
			Help: "Members currently present in a channel",
		},
		[]string{"server_id", "channel"},
	)

	connectedClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_connected_clients",
			Help: "Clients connected to the chat backend",
		},
		[]string{"server_id"},
	)

	deliveryLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_delivery_latency_seconds",
			Help:    "End-to-end message delivery latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"server_id", "channel"},
	)
)

// MetricsSimulator holds state for metrics simulation
type MetricsSimulator struct {
	channels     []string
	serverID     string
	mu           sync.RWMutex
	stopChan     chan struct{}
	messageRate  map[string]float64 // channel -> messages per second
	currentMsgs  map[string]float64 // channel -> cumulative message count
	currentBytes map[string]float64 // channel -> history bytes
	memberCount  map[string]float64 // channel -> present members
	clients      float64
}

type demoChannel struct {
	name     string
	topic    string
	private  bool
	msgCount int
}

func main() {
	metricsMode := flag.Bool("metrics", false, "Run in metrics simulation mode (serves Prometheus metrics)")
	metricsPort := flag.String("metrics-port", "9090", "Port to serve Prometheus metrics on")
	serverURL := flag.String("server", "localhost:4222", "NATS server URL")
	flag.Parse()

	nc, err := nats.Connect(*serverURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		log.Fatalf("Failed to create JetStream context: %v", err)
	}

	log.Println("Connected to NATS successfully!")

	channelsKV := ensureBucket(js, channelBucket, 0)
	presenceKV := ensureBucket(js, presenceBucket, presenceTTL)

	channels := []demoChannel{
		{"general", "Company-wide chatter", false, 180},
		{"random", "Off-topic, memes, lunch plans", false, 95},
		{"dev", "Engineering discussion and code review pings", false, 240},
		{"ops", "Incidents, deploys, on-call handoff", false, 130},
		{"design", "Mockups and design critique", false, 40},
		{"announcements", "Read-mostly company announcements", false, 12},
		{"leads", "Team leads sync", true, 25},
	}

	users := []string{"ava", "ben", "carol", "dmitri", "elif", "frank", "grace", "hiro"}

	for _, ch := range channels {
		log.Printf("Creating channel: #%s", ch.name)

		_, err := js.AddStream(&nats.StreamConfig{
			Name:        chat.StreamFor(ch.name),
			Description: "natter channel history",
			Subjects:    []string{chat.MsgSubject(ch.name)},
			Retention:   nats.LimitsPolicy,
			Storage:     nats.FileStorage,
			Discard:     nats.DiscardOld,
			MaxMsgs:     100_000,
			MaxAge:      90 * 24 * time.Hour,
			Duplicates:  2 * time.Minute,
		})
		if err != nil {
			// Channel might already exist from a previous run
			log.Printf("Channel %s might already exist: %v", ch.name, err)
		}

		creator := users[rand.Intn(len(users))]
		meta := models.ChannelMeta{
			Name:    ch.name,
			Topic:   ch.topic,
			Private: ch.private,
			Creator: creator,
			Created: time.Now().UTC().Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		if data, err := json.Marshal(meta); err == nil {
			if _, err := channelsKV.Put(ch.name, data); err != nil {
				log.Printf("Failed to register channel %s: %v", ch.name, err)
			}
		}

		log.Printf("Publishing %d messages to #%s", ch.msgCount, ch.name)
		publishMessages(js, ch.name, users, ch.msgCount)
	}

	log.Println("\nSeeding presence...")
	seedPresence(presenceKV, channels, users)

	log.Println("\n✅ Demo data population completed successfully!")

	if *metricsMode {
		log.Println("\n🔥 Starting metrics simulation mode...")
		log.Printf("Prometheus metrics will be available at http://localhost:%s/metrics\n", *metricsPort)
		log.Println("Press Ctrl+C to stop")

		names := make([]string, 0, len(channels))
		for _, ch := range channels {
			names = append(names, ch.name)
		}

		sim := NewMetricsSimulator(names)
		sim.Start(*metricsPort)
	} else {
		log.Println("You can now run natter against this server.")
	}
}

// ensureBucket opens a KV bucket, creating it when missing.
func ensureBucket(js nats.JetStreamContext, name string, ttl time.Duration) nats.KeyValue {
	kv, err := js.KeyValue(name)
	if err == nil {
		return kv
	}
	kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
		Bucket: name,
		TTL:    ttl,
	})
	if err != nil {
		log.Fatalf("Failed to create bucket %s: %v", name, err)
	}
	return kv
}

// publishMessages writes a plausible conversation into a channel's history,
// oldest first, each message with a unique ID for the dedup window.
func publishMessages(js nats.JetStreamContext, channel string, users []string, count int) {
	// Spread messages over the last week so relative timestamps look real
	start := time.Now().Add(-7 * 24 * time.Hour)
	step := 7 * 24 * time.Hour / time.Duration(count+1)

	for i := 0; i < count; i++ {
		ev := models.ChatEvent{
			ID:      uuid.NewString(),
			Type:    models.EventMessage,
			Channel: channel,
			From:    users[rand.Intn(len(users))],
			Body:    generateMessageBody(channel),
			Ts:      start.Add(time.Duration(i+1) * step).UTC(),
		}

		data, err := ev.Encode()
		if err != nil {
			log.Printf("Failed to encode message: %v", err)
			continue
		}

		if _, err := js.Publish(chat.MsgSubject(channel), data, nats.MsgId(ev.ID)); err != nil {
			log.Printf("Failed to publish message: %v", err)
		}

		if i%100 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// seedPresence marks a random subset of users present in each channel.
func seedPresence(kv nats.KeyValue, channels []demoChannel, users []string) {
	statuses := []string{models.PresenceOnline, models.PresenceOnline, models.PresenceAway}

	for _, ch := range channels {
		present := rand.Intn(len(users)-1) + 1
		for _, user := range users[:present] {
			entry := models.PresenceEntry{
				User:    user,
				Status:  statuses[rand.Intn(len(statuses))],
				Client:  "natter",
				Updated: time.Now().UTC(),
			}
			data, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			key := ch.name + "." + user
			if _, err := kv.Put(key, data); err != nil {
				log.Printf("Failed to seed presence %s: %v", key, err)
			}
		}
	}
}

func generateMessageBody(channel string) string {
	general := []string{
		"morning all",
		"anyone around?",
		"has anyone seen the new dashboard?",
		"lunch at 12?",
		"👍",
		"sounds good to me",
		"can someone take a look at this when they get a chance?",
		"thanks!",
		"I'll pick that up",
		"brb, meeting",
	}

	perChannel := map[string][]string{
		"dev": {
			"PR is up, small one this time I promise",
			"CI is red again on the flaky integration test",
			"who owns the retry logic in the publisher?",
			"rebased and force-pushed, sorry",
			"LGTM, one nit inline",
			"the migration ran clean on staging",
		},
		"ops": {
			"deploying v2.4.1 to prod in 10 minutes",
			"deploy done, error rate looks normal",
			"page was a false alarm, disk alert threshold too tight",
			"handing off on-call to the EU shift",
			"heads up: rotating the TLS certs tonight",
		},
		"design": {
			"new mockups in the shared folder, feedback welcome",
			"can we bump the contrast on the banner?",
			"updated the spacing per yesterday's critique",
		},
		"announcements": {
			"All hands moved to Thursday 3pm",
			"Office closed Monday for the public holiday",
			"Welcome our new teammates joining this week!",
		},
	}

	if pool, ok := perChannel[channel]; ok && rand.Float64() < 0.7 {
		return pool[rand.Intn(len(pool))]
	}
	return general[rand.Intn(len(general))]
}

// NewMetricsSimulator creates a new metrics simulator
func NewMetricsSimulator(channels []string) *MetricsSimulator {
	prometheus.MustRegister(channelMessages)
	prometheus.MustRegister(channelBytes)
	prometheus.MustRegister(channelMembers)
	prometheus.MustRegister(connectedClients)
	prometheus.MustRegister(deliveryLatency)

	sim := &MetricsSimulator{
		channels:     channels,
		serverID:     "nats-server-demo",
		stopChan:     make(chan struct{}),
		messageRate:  make(map[string]float64),
		currentMsgs:  make(map[string]float64),
		currentBytes: make(map[string]float64),
		memberCount:  make(map[string]float64),
		clients:      float64(rand.Intn(40) + 10),
	}

	for _, channel := range channels {
		// Random initial message rate (0.1-5 msgs/sec; chat is slower
		// than machine traffic)
		sim.messageRate[channel] = rand.Float64()*4.9 + 0.1

		// Initial history size (100-5000 messages)
		sim.currentMsgs[channel] = float64(rand.Intn(4900) + 100)

		// Roughly 200 bytes average per message
		sim.currentBytes[channel] = sim.currentMsgs[channel] * 200

		sim.memberCount[channel] = float64(rand.Intn(8) + 1)
	}

	return sim
}

// Start begins the metrics simulation
func (s *MetricsSimulator) Start(port string) {
	// Export endpoint for real Prometheus scraping
	http.Handle("/metrics", promhttp.Handler())

	// Query API endpoints the natter prometheus plugin talks to
	http.HandleFunc("/api/v1/query_range", s.handleQueryRange)
	http.HandleFunc("/api/v1/query", s.handleQuery)

	go func() {
		log.Printf("Starting Prometheus metrics server on :%s\n", port)
		log.Printf("  Metrics export: http://localhost:%s/metrics\n", port)
		log.Printf("  Query API: http://localhost:%s/api/v1/query_range\n", port)
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Fatalf("Failed to start metrics server: %v", err)
		}
	}()

	go s.updateMetrics()

	<-s.stopChan
}

// updateMetrics continuously updates metrics to simulate activity
func (s *MetricsSimulator) updateMetrics() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	log.Println("📊 Metrics simulation started. Updating every 5 seconds...")

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.simulateActivity()
			s.publishMetrics()
			s.mu.Unlock()

		case <-s.stopChan:
			return
		}
	}
}

// simulateActivity evolves the per-channel counters to look like a live
// chat server.
func (s *MetricsSimulator) simulateActivity() {
	for _, channel := range s.channels {
		// Randomly vary message rate (±20%)
		variation := 1.0 + (rand.Float64()-0.5)*0.4
		currentRate := s.messageRate[channel] * variation

		// Add messages based on rate (5 second interval)
		newMessages := currentRate * 5.0
		s.currentMsgs[channel] += newMessages
		s.currentBytes[channel] += newMessages * 200

		// Members drift by one occasionally
		if rand.Float64() < 0.15 {
			s.memberCount[channel] += float64(rand.Intn(3) - 1)
			if s.memberCount[channel] < 0 {
				s.memberCount[channel] = 0
			}
		}

		// Occasionally spike the message rate to simulate a busy thread
		if rand.Float64() < 0.1 {
			s.messageRate[channel] *= 1.5 + rand.Float64()
		}

		// Occasionally drop the rate to simulate quiet periods
		if rand.Float64() < 0.05 {
			s.messageRate[channel] *= 0.5
		}

		if s.messageRate[channel] < 0.05 {
			s.messageRate[channel] = 0.05
		}
		if s.messageRate[channel] > 20 {
			s.messageRate[channel] = 20
		}

		// Simulate delivery latency samples for this interval
		samples := int(newMessages)
		if samples > 50 {
			samples = 50
		}
		for i := 0; i < samples; i++ {
			// Mostly fast, occasionally slow
			latency := rand.Float64() * 0.02
			if rand.Float64() < 0.05 {
				latency += rand.Float64() * 0.3
			}
			deliveryLatency.WithLabelValues(s.serverID, channel).Observe(latency)
		}
	}

	// Clients come and go
	s.clients += float64(rand.Intn(5) - 2)
	if s.clients < 1 {
		s.clients = 1
	}
}

// publishMetrics updates the exported Prometheus metrics
func (s *MetricsSimulator) publishMetrics() {
	for _, channel := range s.channels {
		// Counter: add this interval's messages
		newMsgs := s.messageRate[channel] * 5.0
		channelMessages.WithLabelValues(s.serverID, channel).Add(newMsgs)

		channelBytes.WithLabelValues(s.serverID, channel).Set(s.currentBytes[channel])
		channelMembers.WithLabelValues(s.serverID, channel).Set(s.memberCount[channel])
	}
	connectedClients.WithLabelValues(s.serverID).Set(s.clients)
}

// Stop stops the metrics simulation
func (s *MetricsSimulator) Stop() {
	close(s.stopChan)
}

// handleQueryRange handles the Prometheus range query API. The natter
// plugin groups every query by channel, so results carry a channel label.
func (s *MetricsSimulator) handleQueryRange(w http.ResponseWriter, r *http.Request) {
	// The client library POSTs form-encoded queries
	query := r.FormValue("query")

	var metricName string
	channelPattern := extractLabel(query, "channel")

	switch {
	case strings.Contains(query, "chat_delivery_latency_seconds_bucket"):
		metricName = "delivery_latency_p95"
	case strings.Contains(query, "chat_channel_messages_total") && strings.Contains(query, "rate("):
		metricName = "message_rate"
	case strings.Contains(query, "chat_channel_messages_total"):
		metricName = "channel_messages"
	case strings.Contains(query, "chat_channel_bytes"):
		metricName = "channel_bytes"
	case strings.Contains(query, "chat_channel_members"):
		metricName = "active_members"
	case strings.Contains(query, "chat_connected_clients"):
		metricName = "connected_clients"
	}

	response := s.generateQueryRangeResponse(metricName, channelPattern)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleQuery handles instant query API (used by health checks)
func (s *MetricsSimulator) handleQuery(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"resultType": "vector",
			"result":     []interface{}{},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// generateQueryRangeResponse creates a fake Prometheus matrix response
func (s *MetricsSimulator) generateQueryRangeResponse(metricName, channelPattern string) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	step := 30 * time.Second
	points := 60 // Last 30 minutes

	result := []map[string]interface{}{}

	switch metricName {
	case "message_rate", "channel_messages", "channel_bytes", "active_members":
		for _, channel := range s.channels {
			if !channelMatches(channel, channelPattern) {
				continue
			}

			var baseValue float64
			switch metricName {
			case "message_rate":
				baseValue = s.messageRate[channel]
			case "channel_messages":
				baseValue = s.currentMsgs[channel]
			case "channel_bytes":
				baseValue = s.currentBytes[channel]
			case "active_members":
				baseValue = s.memberCount[channel]
			}

			result = append(result, map[string]interface{}{
				"metric": map[string]string{
					"channel": channel,
				},
				"values": buildSeries(now, step, points, baseValue, metricName != "message_rate" && metricName != "active_members"),
			})
		}

	case "connected_clients":
		result = append(result, map[string]interface{}{
			"metric": map[string]string{},
			"values": buildSeries(now, step, points, s.clients, false),
		})

	case "delivery_latency_p95":
		// One aggregate series; the plugin queries by le only
		result = append(result, map[string]interface{}{
			"metric": map[string]string{},
			"values": buildSeries(now, step, points, 0.012, false),
		})
	}

	return map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"resultType": "matrix",
			"result":     result,
		},
	}
}

// buildSeries generates plausible time-series values. Growing series ramp
// up to the base value; flat series just wobble around it.
func buildSeries(now time.Time, step time.Duration, points int, baseValue float64, growing bool) [][]interface{} {
	values := make([][]interface{}, points)
	for i := 0; i < points; i++ {
		timestamp := now.Add(-time.Duration(points-i) * step).Unix()

		value := baseValue
		if growing {
			value = baseValue * float64(i+1) / float64(points)
		}
		value += (rand.Float64() - 0.5) * baseValue * 0.1
		if value < 0 {
			value = 0
		}

		values[i] = []interface{}{timestamp, fmt.Sprintf("%.4f", value)}
	}
	return values
}

// channelMatches applies the channel=~ filter from a query. The plugin
// sends either an exact channel name or ".*" for all channels.
func channelMatches(channel, pattern string) bool {
	if pattern == "" || pattern == ".*" {
		return true
	}
	return channel == pattern
}

// extractLabel extracts a label value from a query string
func extractLabel(query, label string) string {
	// Simple extraction: channel=~"xyz" or channel="xyz"
	pattern := label + `=~"`
	idx := strings.Index(query, pattern)
	if idx == -1 {
		pattern = label + `="`
		idx = strings.Index(query, pattern)
	}
	if idx == -1 {
		return ""
	}

	start := idx + len(pattern)
	end := strings.Index(query[start:], `"`)
	if end == -1 {
		return ""
	}

	return query[start : start+end]
}
