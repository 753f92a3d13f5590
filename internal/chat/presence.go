package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/natter-io/natter/internal/models"
)

// clientName identifies this client in presence entries.
const clientName = "natter"

// Join marks the user present in a channel and announces it in history.
func (c *Client) Join(channel string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	if err := c.putPresence(channel, models.PresenceOnline); err != nil {
		return err
	}
	return c.announce(channel, models.EventJoin)
}

// Leave removes the user's presence and announces the departure.
func (c *Client) Leave(channel string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	if err := c.presence.Delete(presenceKey(channel, c.user)); err != nil {
		return fmt.Errorf("failed to clear presence: %w", err)
	}
	return c.announce(channel, models.EventLeave)
}

// announce writes a join/leave marker into the channel history.
func (c *Client) announce(channel, eventType string) error {
	ev := &models.ChatEvent{
		ID:      uuid.NewString(),
		Type:    eventType,
		Channel: channel,
		From:    c.user,
		Ts:      time.Now().UTC(),
	}
	data, err := ev.Encode()
	if err != nil {
		return err
	}
	if _, err := c.js.Publish(MsgSubject(channel), data); err != nil {
		return fmt.Errorf("failed to announce %s: %w", eventType, err)
	}
	return nil
}

// putPresence writes or refreshes this user's presence entry.
func (c *Client) putPresence(channel, status string) error {
	entry := models.PresenceEntry{
		User:    c.user,
		Status:  status,
		Client:  clientName,
		Updated: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode presence: %w", err)
	}
	if _, err := c.presence.Put(presenceKey(channel, c.user), data); err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}
	return nil
}

// Members returns the present members of a channel, sorted by name.
// Absent members simply have no key; the bucket TTL reaps stale entries
// from clients that died without leaving.
func (c *Client) Members(channel string) ([]*models.Member, error) {
	keys, err := c.presence.Keys()
	if err != nil {
		// No keys at all means an empty channel, not a failure
		return []*models.Member{}, nil
	}

	prefix := channel + "."
	var members []*models.Member
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry, err := c.presence.Get(key)
		if err != nil {
			continue
		}

		var pe models.PresenceEntry
		if err := json.Unmarshal(entry.Value(), &pe); err != nil {
			c.log.Debug("skipping undecodable presence entry", "key", key, "error", err)
			continue
		}
		members = append(members, &models.Member{
			User:     pe.User,
			Channel:  channel,
			Status:   pe.Status,
			LastSeen: pe.Updated,
			Client:   pe.Client,
		})
	}

	sort.Slice(members, func(i, j int) bool { return members[i].User < members[j].User })
	return members, nil
}

// MemberInfo returns one member's presence entry.
func (c *Client) MemberInfo(channel, user string) (*models.Member, error) {
	members, err := c.Members(channel)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.User == user {
			return m, nil
		}
	}
	return nil, fmt.Errorf("member %s not present in #%s", user, channel)
}

// Heartbeat refreshes the user's presence in a channel until ctx is
// cancelled. Run it in a goroutine for the lifetime of an open channel;
// the refresh period stays well inside the bucket TTL.
func (c *Client) Heartbeat(ctx context.Context, channel string) {
	ticker := time.NewTicker(presenceTTL / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.readOnly || !c.IsConnected() {
				continue
			}
			if err := c.putPresence(channel, models.PresenceOnline); err != nil {
				c.log.Debug("presence refresh failed", "channel", channel, "error", err)
			}
		}
	}
}
