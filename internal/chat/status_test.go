package chat

import "testing"

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusConnected, "connected"},
		{StatusConnecting, "connecting"},
		{StatusDisconnected, "disconnected"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusFeedSubscribeDeliversCurrent(t *testing.T) {
	feed := NewStatusFeed(StatusConnecting)

	var got []Status
	cancel := feed.Subscribe(func(st Status) {
		got = append(got, st)
	})
	defer cancel()

	if len(got) != 1 || got[0] != StatusConnecting {
		t.Fatalf("got %v, want immediate delivery of connecting", got)
	}
}

func TestStatusFeedTransitions(t *testing.T) {
	feed := NewStatusFeed(StatusDisconnected)

	var got []Status
	cancel := feed.Subscribe(func(st Status) {
		got = append(got, st)
	})
	defer cancel()

	feed.Set(StatusConnecting)
	feed.Set(StatusConnecting) // repeated value is dropped
	feed.Set(StatusConnected)

	want := []Status{StatusDisconnected, StatusConnecting, StatusConnected}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if feed.Current() != StatusConnected {
		t.Errorf("Current() = %v, want connected", feed.Current())
	}
}

func TestStatusFeedCancel(t *testing.T) {
	feed := NewStatusFeed(StatusConnected)

	calls := 0
	cancel := feed.Subscribe(func(Status) { calls++ })
	cancel()

	feed.Set(StatusDisconnected)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (only the immediate delivery)", calls)
	}
}
