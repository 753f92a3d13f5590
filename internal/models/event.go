package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Chat event types carried on the wire
const (
	EventMessage = "message"
	EventTyping  = "typing"
	EventJoin    = "join"
	EventLeave   = "leave"
)

// ChatEvent is the JSON payload published for every chat action
type ChatEvent struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Channel string    `json:"channel"`
	From    string    `json:"from"`
	Body    string    `json:"body,omitempty"`
	Ts      time.Time `json:"ts"`
}

// Encode serializes the event for publishing
func (e *ChatEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat event: %w", err)
	}
	return data, nil
}

// DecodeEvent parses a chat event payload
func DecodeEvent(data []byte) (*ChatEvent, error) {
	var ev ChatEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode chat event: %w", err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("chat event missing type")
	}
	return &ev, nil
}

// Message converts a message event into the display model
func (e *ChatEvent) Message(seq uint64) Message {
	return Message{
		Seq:     seq,
		ID:      e.ID,
		Channel: e.Channel,
		Sender:  e.From,
		Body:    e.Body,
		Time:    e.Ts,
	}
}
