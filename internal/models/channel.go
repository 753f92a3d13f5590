package models

import "time"

// Channel represents a chat channel and its live counters
type Channel struct {
	Name       string
	Topic      string
	Private    bool
	Creator    string
	Created    time.Time
	Members    int
	Online     int
	Messages   uint64
	Bytes      uint64
	FirstSeq   uint64
	LastSeq    uint64
	LastActive time.Time
	Unread     uint64
	Limits     ChannelLimits
}

// ChannelMeta is the registry entry stored for a channel
type ChannelMeta struct {
	Name    string    `json:"name"`
	Topic   string    `json:"topic"`
	Private bool      `json:"private"`
	Creator string    `json:"creator"`
	Created time.Time `json:"created"`
}

// ChannelLimits holds history retention settings for a channel
type ChannelLimits struct {
	MaxAge      time.Duration
	MaxMessages int64
	MaxBytes    int64
	MaxMsgSize  int32
	Storage     string // file, memory
	Replicas    int
	Discard     string // old, new
}

// DisplayName returns the channel name with the conventional # prefix
func (c *Channel) DisplayName() string {
	if c == nil || c.Name == "" {
		return "#"
	}
	return "#" + c.Name
}
