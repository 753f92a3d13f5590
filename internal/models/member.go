package models

import "time"

// Presence states reported for channel members
const (
	PresenceOnline = "online"
	PresenceAway   = "away"
)

// Member represents one user's presence in a channel
type Member struct {
	User     string
	Channel  string
	Status   string // online, away
	LastSeen time.Time
	Client   string // client name/version reported at join
}

// PresenceEntry is the JSON value stored per member in the presence bucket
type PresenceEntry struct {
	User    string    `json:"user"`
	Status  string    `json:"status"`
	Client  string    `json:"client,omitempty"`
	Updated time.Time `json:"updated"`
}

// Online reports whether the member's presence counts as online
func (m *Member) IsOnline() bool {
	return m.Status == PresenceOnline
}
