package chat

import "sync"

// Status is the client's connection state relative to the chat backend.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

// String returns the canonical lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusConnecting:
		return "connecting"
	default:
		return "disconnected"
	}
}

// StatusFeed distributes connection status changes to any number of
// subscribers. Widgets subscribe for their mounted lifetime and cancel on
// teardown; the client publishes transitions from its connection handlers.
// Safe for concurrent use.
type StatusFeed struct {
	mu     sync.RWMutex
	subs   map[int]func(Status)
	nextID int
	last   Status
}

// NewStatusFeed creates a feed holding initial as its current value.
func NewStatusFeed(initial Status) *StatusFeed {
	return &StatusFeed{
		subs: make(map[int]func(Status)),
		last: initial,
	}
}

// Subscribe registers fn and returns a cancel func that removes it.
// fn is invoked immediately with the current value, then once per
// transition. Callbacks run on the publishing goroutine and must not block.
func (f *StatusFeed) Subscribe(fn func(Status)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	current := f.last
	f.mu.Unlock()

	fn(current)

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Current returns the most recently published status.
func (f *StatusFeed) Current() Status {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last
}

// Set publishes a new status. Subscribers are only notified on actual
// transitions; repeated values are dropped.
func (f *StatusFeed) Set(st Status) {
	f.mu.Lock()
	if st == f.last {
		f.mu.Unlock()
		return
	}
	f.last = st
	fns := make([]func(Status), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
