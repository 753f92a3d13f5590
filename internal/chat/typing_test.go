package chat

import (
	"testing"
	"time"
)

func TestTypingTrackerActive(t *testing.T) {
	tr := NewTypingTracker()
	now := time.Now()
	tr.now = func() time.Time { return now }

	tr.Touch("ben")
	tr.Touch("ava")

	got := tr.Active()
	if len(got) != 2 || got[0] != "ava" || got[1] != "ben" {
		t.Fatalf("Active() = %v, want sorted [ava ben]", got)
	}
}

func TestTypingTrackerExpiry(t *testing.T) {
	tr := NewTypingTracker()
	now := time.Now()
	tr.now = func() time.Time { return now }

	tr.Touch("ava")
	tr.Touch("ben")

	// Advance past the timeout for ava only
	now = now.Add(typingTimeout / 2)
	tr.Touch("ben")
	now = now.Add(typingTimeout/2 + time.Second)

	got := tr.Active()
	if len(got) != 1 || got[0] != "ben" {
		t.Fatalf("Active() = %v, want [ben]", got)
	}

	// Expired entries are pruned, not just filtered
	tr.mu.Lock()
	_, stillThere := tr.entries["ava"]
	tr.mu.Unlock()
	if stillThere {
		t.Error("expired entry should be pruned")
	}
}

func TestTypingTrackerClearAndReset(t *testing.T) {
	tr := NewTypingTracker()

	tr.Touch("ava")
	tr.Clear("ava")
	if got := tr.Active(); len(got) != 0 {
		t.Errorf("Active() after Clear = %v, want empty", got)
	}

	tr.Touch("ava")
	tr.Touch("ben")
	tr.Reset()
	if got := tr.Active(); len(got) != 0 {
		t.Errorf("Active() after Reset = %v, want empty", got)
	}
}
