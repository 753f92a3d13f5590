package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/natter-io/natter/internal/models"
)

// Default history retention applied to newly created channels.
const (
	defaultMaxMessages = 100_000
	defaultMaxAge      = 90 * 24 * time.Hour

	// dedupWindow lets JetStream drop redeliveries of the same message ID.
	dedupWindow = 2 * time.Minute
)

// ListChannels returns every channel with its history counters and member
// counts. Unread counts are left zero; the UI layer fills them from the
// local read-state store.
func (c *Client) ListChannels() ([]*models.Channel, error) {
	members := c.presenceCounts()

	var out []*models.Channel
	for info := range c.js.StreamsInfo() {
		name := ChannelFromStream(info.Config.Name)
		if name == "" {
			continue
		}
		ch := c.convertStream(name, info)
		ch.Members = members[name]
		out = append(out, ch)
	}
	return out, nil
}

// ChannelInfo returns one channel with full counters and presence.
func (c *Client) ChannelInfo(name string) (*models.Channel, error) {
	info, err := c.js.StreamInfo(StreamFor(name))
	if err != nil {
		if errors.Is(err, nats.ErrStreamNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, name)
		}
		return nil, fmt.Errorf("failed to get channel info: %w", err)
	}

	ch := c.convertStream(name, info)
	members, err := c.Members(name)
	if err == nil {
		ch.Members = len(members)
		for _, m := range members {
			if m.IsOnline() {
				ch.Online++
			}
		}
	}
	return ch, nil
}

// CreateChannel creates the history stream and registry entry for a new
// channel.
func (c *Client) CreateChannel(name, topic string, private bool) error {
	if c.readOnly {
		return ErrReadOnly
	}
	if err := ValidateChannelName(name); err != nil {
		return err
	}

	_, err := c.js.AddStream(&nats.StreamConfig{
		Name:        StreamFor(name),
		Description: "natter channel history",
		Subjects:    []string{MsgSubject(name)},
		Retention:   nats.LimitsPolicy,
		Storage:     nats.FileStorage,
		Discard:     nats.DiscardOld,
		MaxMsgs:     defaultMaxMessages,
		MaxAge:      defaultMaxAge,
		Duplicates:  dedupWindow,
	})
	if err != nil {
		if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			return fmt.Errorf("channel %s already exists", name)
		}
		return fmt.Errorf("failed to create channel: %w", err)
	}

	meta := models.ChannelMeta{
		Name:    name,
		Topic:   topic,
		Private: private,
		Creator: c.user,
		Created: time.Now().UTC(),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode channel meta: %w", err)
	}
	if _, err := c.channels.Put(name, data); err != nil {
		return fmt.Errorf("failed to register channel: %w", err)
	}
	return nil
}

// DeleteChannel removes the channel's history stream, registry entry and
// presence keys.
func (c *Client) DeleteChannel(name string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	if err := c.js.DeleteStream(StreamFor(name)); err != nil && !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to delete channel history: %w", err)
	}
	if err := c.channels.Delete(name); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("failed to unregister channel: %w", err)
	}
	c.purgePresence(name)
	return nil
}

// PurgeChannel drops all history while keeping the channel itself.
func (c *Client) PurgeChannel(name string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	if err := c.js.PurgeStream(StreamFor(name)); err != nil {
		return fmt.Errorf("failed to purge channel: %w", err)
	}
	return nil
}

// SetTopic updates the registry entry's topic.
func (c *Client) SetTopic(name, topic string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	meta, err := c.channelMeta(name)
	if err != nil {
		return err
	}
	meta.Topic = topic
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode channel meta: %w", err)
	}
	if _, err := c.channels.Put(name, data); err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	return nil
}

// UpdateLimits changes a channel's history retention.
func (c *Client) UpdateLimits(name string, maxMsgs, maxBytes int64, maxAge time.Duration, maxMsgSize int32, discard string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	info, err := c.js.StreamInfo(StreamFor(name))
	if err != nil {
		if errors.Is(err, nats.ErrStreamNotFound) {
			return fmt.Errorf("%w: %s", ErrChannelNotFound, name)
		}
		return fmt.Errorf("failed to get current limits: %w", err)
	}

	cfg := info.Config
	cfg.MaxMsgs = maxMsgs
	cfg.MaxBytes = maxBytes
	cfg.MaxAge = maxAge
	cfg.MaxMsgSize = maxMsgSize

	switch discard {
	case "old":
		cfg.Discard = nats.DiscardOld
	case "new":
		cfg.Discard = nats.DiscardNew
	}

	if _, err := c.js.UpdateStream(&cfg); err != nil {
		return fmt.Errorf("failed to update limits: %w", err)
	}
	return nil
}

// channelMeta loads the registry entry, synthesizing one for channels that
// predate the registry.
func (c *Client) channelMeta(name string) (*models.ChannelMeta, error) {
	entry, err := c.channels.Get(name)
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return &models.ChannelMeta{Name: name}, nil
		}
		return nil, fmt.Errorf("failed to read channel meta: %w", err)
	}

	var meta models.ChannelMeta
	if err := json.Unmarshal(entry.Value(), &meta); err != nil {
		return nil, fmt.Errorf("failed to decode channel meta: %w", err)
	}
	return &meta, nil
}

// convertStream merges a history stream's state with the registry entry.
func (c *Client) convertStream(name string, info *nats.StreamInfo) *models.Channel {
	ch := &models.Channel{
		Name:       name,
		Created:    info.Created,
		Messages:   info.State.Msgs,
		Bytes:      info.State.Bytes,
		FirstSeq:   info.State.FirstSeq,
		LastSeq:    info.State.LastSeq,
		LastActive: info.State.LastTime,
		Limits: models.ChannelLimits{
			MaxAge:      info.Config.MaxAge,
			MaxMessages: info.Config.MaxMsgs,
			MaxBytes:    info.Config.MaxBytes,
			MaxMsgSize:  info.Config.MaxMsgSize,
			Storage:     info.Config.Storage.String(),
			Replicas:    info.Config.Replicas,
			Discard:     info.Config.Discard.String(),
		},
	}

	if meta, err := c.channelMeta(name); err == nil {
		ch.Topic = meta.Topic
		ch.Private = meta.Private
		ch.Creator = meta.Creator
		if !meta.Created.IsZero() {
			ch.Created = meta.Created
		}
	}
	return ch
}

// presenceCounts returns the number of present members per channel from a
// single key scan.
func (c *Client) presenceCounts() map[string]int {
	counts := make(map[string]int)
	keys, err := c.presence.Keys()
	if err != nil {
		// ErrNoKeysFound just means nobody is online anywhere
		return counts
	}
	for _, key := range keys {
		if channel, _, ok := splitPresenceKey(key); ok {
			counts[channel]++
		}
	}
	return counts
}

// purgePresence drops all presence keys for a channel.
func (c *Client) purgePresence(channel string) {
	keys, err := c.presence.Keys()
	if err != nil {
		return
	}
	prefix := channel + "."
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			_ = c.presence.Delete(key)
		}
	}
}
