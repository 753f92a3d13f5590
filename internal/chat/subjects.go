package chat

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Naming on the wire: every channel owns one JetStream stream holding its
// history, messages are published on chat.msg.<channel>, typing events on
// chat.typ.<channel> (core NATS, never persisted). Channel metadata and
// presence live in KV buckets.
const (
	streamPrefix   = "CHAT_"
	msgPrefix      = "chat.msg."
	typingPrefix   = "chat.typ."
	channelBucket  = "chat-channels"
	presenceBucket = "chat-presence"

	// presenceTTL bounds how long a member stays listed after their client
	// stops heartbeating.
	presenceTTL = 90 * time.Second
)

var channelNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,47}$`)

// ValidateChannelName checks that name is usable as a channel name:
// lowercase alphanumerics, dash and underscore, 1-48 characters.
func ValidateChannelName(name string) error {
	if !channelNameRe.MatchString(name) {
		return fmt.Errorf("invalid channel name %q: use lowercase letters, digits, - and _ (max 48 chars)", name)
	}
	return nil
}

// StreamFor returns the JetStream stream name holding a channel's history.
func StreamFor(channel string) string {
	return streamPrefix + channel
}

// ChannelFromStream returns the channel a stream belongs to, or "" when the
// stream is not a chat history stream.
func ChannelFromStream(stream string) string {
	if !strings.HasPrefix(stream, streamPrefix) {
		return ""
	}
	return strings.TrimPrefix(stream, streamPrefix)
}

// MsgSubject returns the subject messages for a channel are published on.
func MsgSubject(channel string) string {
	return msgPrefix + channel
}

// TypingSubject returns the subject typing notifications use.
func TypingSubject(channel string) string {
	return typingPrefix + channel
}

// presenceKey builds the KV key for one member of one channel. Dots are not
// legal inside a single KV key token, so they are folded to underscores.
func presenceKey(channel, user string) string {
	return channel + "." + strings.ReplaceAll(user, ".", "_")
}

// splitPresenceKey is the inverse of presenceKey.
func splitPresenceKey(key string) (channel, user string, ok bool) {
	idx := strings.Index(key, ".")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}
