package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/natter-io/natter/internal/models"
)

// History retrieves the last N messages of a channel (non-destructive
// read). The fetch runs in a goroutine so a slow or wedged server cannot
// hang the caller past the 60 second ceiling.
func (c *Client) History(channel string, limit int) ([]*models.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	type result struct {
		messages []*models.Message
		err      error
	}
	resultChan := make(chan result, 1)

	go func() {
		messages, err := c.fetchHistory(channel, limit)
		resultChan <- result{messages: messages, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout fetching history for #%s", channel)
	case res := <-resultChan:
		return res.messages, res.err
	}
}

// fetchHistory walks the history stream sequence window backing the
// channel, skipping gaps left by retention deletes.
func (c *Client) fetchHistory(channel string, limit int) ([]*models.Message, error) {
	stream := StreamFor(channel)
	info, err := c.js.StreamInfo(stream)
	if err != nil {
		if errors.Is(err, nats.ErrStreamNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channel)
		}
		return nil, fmt.Errorf("failed to get channel history info: %w", err)
	}

	if info.State.Msgs == 0 {
		return []*models.Message{}, nil
	}

	// Start so that at most limit messages remain ahead of us
	startSeq := info.State.FirstSeq
	if info.State.Msgs > uint64(limit) {
		startSeq = info.State.LastSeq - uint64(limit) + 1
	}

	var messages []*models.Message
	failCount := 0
	maxFails := 10 // consecutive gaps before giving up on a sparse stream

	for seq := startSeq; seq <= info.State.LastSeq && len(messages) < limit; seq++ {
		if failCount >= maxFails {
			break
		}

		raw, err := c.js.GetMsg(stream, seq)
		if err != nil {
			// Deleted by retention, skip
			failCount++
			continue
		}
		failCount = 0

		ev, err := models.DecodeEvent(raw.Data)
		if err != nil {
			c.log.Debug("skipping undecodable history entry", "channel", channel, "seq", seq, "error", err)
			continue
		}
		msg := ev.Message(raw.Sequence)
		messages = append(messages, &msg)
	}

	return messages, nil
}

// MessageDetail loads one history entry with its raw payload for the
// inspector panel.
func (c *Client) MessageDetail(channel string, seq uint64) (*models.MessageDetail, error) {
	raw, err := c.js.GetMsg(StreamFor(channel), seq)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	// Pretty-print the payload when it is JSON (it normally is)
	rawText := string(raw.Data)
	var decoded interface{}
	if json.Unmarshal(raw.Data, &decoded) == nil {
		if formatted, err := json.MarshalIndent(decoded, "", "  "); err == nil {
			rawText = string(formatted)
		}
	}

	detail := &models.MessageDetail{
		Seq:     raw.Sequence,
		Channel: channel,
		Subject: raw.Subject,
		Time:    raw.Time,
		Size:    len(raw.Data),
		Raw:     rawText,
	}
	if ev, err := models.DecodeEvent(raw.Data); err == nil {
		detail.ID = ev.ID
		detail.Sender = ev.From
		detail.Body = ev.Body
	}
	return detail, nil
}

// SendMessage publishes a message to a channel's history. The generated
// event ID doubles as the JetStream dedup ID, so a client retry cannot
// produce a duplicate in history.
func (c *Client) SendMessage(channel, body string) (*models.Message, error) {
	if c.readOnly {
		return nil, ErrReadOnly
	}

	ev := &models.ChatEvent{
		ID:      uuid.NewString(),
		Type:    models.EventMessage,
		Channel: channel,
		From:    c.user,
		Body:    body,
		Ts:      time.Now().UTC(),
	}
	data, err := ev.Encode()
	if err != nil {
		return nil, err
	}

	ack, err := c.js.Publish(MsgSubject(channel), data, nats.MsgId(ev.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	msg := ev.Message(ack.Sequence)
	return &msg, nil
}

// SubscribeMessages delivers live message, join and leave events for a
// channel until the returned cancel func runs. The handler is called from
// the connection's dispatch goroutine; UI code must hop onto the draw
// queue itself.
func (c *Client) SubscribeMessages(channel string, fn func(models.ChatEvent)) (func(), error) {
	sub, err := c.conn.Subscribe(MsgSubject(channel), func(m *nats.Msg) {
		ev, err := models.DecodeEvent(m.Data)
		if err != nil {
			c.log.Debug("dropping undecodable live event", "channel", channel, "error", err)
			return
		}
		fn(*ev)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to #%s: %w", channel, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// SendTyping publishes a transient typing notification. Senders repeat it
// while the user keeps typing; receivers expire entries on their own.
func (c *Client) SendTyping(channel string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	ev := &models.ChatEvent{
		ID:      uuid.NewString(),
		Type:    models.EventTyping,
		Channel: channel,
		From:    c.user,
		Ts:      time.Now().UTC(),
	}
	data, err := ev.Encode()
	if err != nil {
		return err
	}
	if err := c.conn.Publish(TypingSubject(channel), data); err != nil {
		return fmt.Errorf("failed to send typing notification: %w", err)
	}
	return nil
}

// SubscribeTyping delivers other users' typing notifications for a channel.
func (c *Client) SubscribeTyping(channel string, fn func(user string)) (func(), error) {
	sub, err := c.conn.Subscribe(TypingSubject(channel), func(m *nats.Msg) {
		ev, err := models.DecodeEvent(m.Data)
		if err != nil || ev.Type != models.EventTyping {
			return
		}
		if ev.From == c.user {
			return
		}
		fn(ev.From)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to typing on #%s: %w", channel, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
