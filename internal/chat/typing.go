package chat

import (
	"sort"
	"sync"
	"time"
)

// typingTimeout is how long a typing notification stays active without a
// refresh. Senders repeat notifications faster than this while the user
// keeps typing.
const typingTimeout = 5 * time.Second

// TypingTracker turns repeated transient typing notifications into a
// stable "who is typing right now" set. Safe for concurrent use.
type TypingTracker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewTypingTracker creates an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Touch records that user is typing now.
func (t *TypingTracker) Touch(user string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[user] = t.now().Add(typingTimeout)
}

// Clear removes a user immediately, e.g. when their message arrives.
func (t *TypingTracker) Clear(user string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, user)
}

// Active returns the users still considered typing, sorted for stable
// display. Expired entries are pruned as a side effect.
func (t *TypingTracker) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var users []string
	for user, deadline := range t.entries {
		if deadline.Before(now) {
			delete(t.entries, user)
			continue
		}
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// Reset drops all entries, used when switching channels.
func (t *TypingTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]time.Time)
}
