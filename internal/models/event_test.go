package models

import (
	"testing"
	"time"
)

func TestEventRoundTrip(t *testing.T) {
	ev := &ChatEvent{
		ID:      "abc-123",
		Type:    EventMessage,
		Channel: "general",
		From:    "ava",
		Body:    "hello there",
		Ts:      time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
	}

	data, err := ev.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if *got != *ev {
		t.Errorf("round trip = %+v, want %+v", got, ev)
	}
}

func TestDecodeEventErrors(t *testing.T) {
	if _, err := DecodeEvent([]byte("not json")); err == nil {
		t.Error("garbage should fail to decode")
	}
	if _, err := DecodeEvent([]byte(`{"channel":"general"}`)); err == nil {
		t.Error("missing type should fail to decode")
	}
}

func TestEventMessage(t *testing.T) {
	ts := time.Now().UTC()
	ev := &ChatEvent{
		ID:      "abc",
		Type:    EventMessage,
		Channel: "general",
		From:    "ava",
		Body:    "hi",
		Ts:      ts,
	}

	msg := ev.Message(42)
	if msg.Seq != 42 || msg.ID != "abc" || msg.Channel != "general" ||
		msg.Sender != "ava" || msg.Body != "hi" || !msg.Time.Equal(ts) {
		t.Errorf("Message(42) = %+v", msg)
	}
}

func TestChannelDisplayName(t *testing.T) {
	tests := []struct {
		ch   *Channel
		want string
	}{
		{&Channel{Name: "general"}, "#general"},
		{&Channel{}, "#"},
		{nil, "#"},
	}
	for _, tt := range tests {
		if got := tt.ch.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestMemberIsOnline(t *testing.T) {
	if !(&Member{Status: PresenceOnline}).IsOnline() {
		t.Error("online member should report online")
	}
	if (&Member{Status: PresenceAway}).IsOnline() {
		t.Error("away member should not report online")
	}
	if (&Member{}).IsOnline() {
		t.Error("unknown status should not report online")
	}
}
