package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/natter-io/natter/internal/config"
	"github.com/natter-io/natter/internal/logging"
)

// Sentinel errors callers branch on with errors.Is.
var (
	ErrNotConnected    = errors.New("not connected")
	ErrReadOnly        = errors.New("client is in read-only mode")
	ErrChannelNotFound = errors.New("channel not found")
)

// Client wraps the NATS connection, JetStream context and the KV buckets
// backing the chat domain. All connection state changes are published on
// the client's StatusFeed.
type Client struct {
	conn     *nats.Conn
	js       nats.JetStreamContext
	channels nats.KeyValue
	presence nats.KeyValue
	feed     *StatusFeed
	log      *logging.Logger
	user     string
	readOnly bool
}

// NewClient connects to the chat backend described by the profile. The
// returned client's StatusFeed already reflects the connection outcome.
func NewClient(profile *config.Profile, log *logging.Logger, readOnly bool) (*Client, error) {
	if log == nil {
		log = logging.Nop()
	}
	feed := NewStatusFeed(StatusConnecting)

	opts := []nats.Option{
		nats.Name("natter"),
		nats.Timeout(10 * time.Second),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			// The client keeps retrying on its own, so from the user's
			// point of view this is "reconnecting", not gone.
			feed.Set(StatusConnecting)
			if err != nil {
				log.Warn("connection lost", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			feed.Set(StatusConnected)
			log.Info("reconnected", "server", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			feed.Set(StatusDisconnected)
			log.Info("connection closed")
		}),
	}

	// Token and credential auth, same precedence as the CLI tooling
	if profile.Token != "" {
		opts = append(opts, nats.Token(profile.Token))
	}
	if profile.Creds != "" {
		opts = append(opts, nats.UserCredentials(profile.Creds))
	}

	nc, err := nats.Connect(profile.Server, opts...)
	if err != nil {
		feed.Set(StatusDisconnected)
		return nil, fmt.Errorf("failed to connect to %s: %w", profile.Server, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c := &Client{
		conn:     nc,
		js:       js,
		feed:     feed,
		log:      log,
		user:     profile.Username,
		readOnly: readOnly,
	}
	if err := c.ensureBuckets(); err != nil {
		nc.Close()
		return nil, err
	}

	feed.Set(StatusConnected)
	log.Info("connected", "server", nc.ConnectedUrl(), "user", c.user)
	return c, nil
}

// ensureBuckets opens the registry and presence buckets, creating them on
// first use.
func (c *Client) ensureBuckets() error {
	var err error
	c.channels, err = c.js.KeyValue(channelBucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		c.channels, err = c.js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      channelBucket,
			Description: "chat channel registry",
			History:     1,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to open channel registry: %w", err)
	}

	c.presence, err = c.js.KeyValue(presenceBucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		c.presence, err = c.js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      presenceBucket,
			Description: "chat member presence",
			TTL:         presenceTTL,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to open presence bucket: %w", err)
	}
	return nil
}

// Status returns the connection status feed widgets subscribe to.
func (c *Client) Status() *StatusFeed {
	return c.feed
}

// User returns the chat identity this client publishes as.
func (c *Client) User() string {
	return c.user
}

// ReadOnly reports whether the client refuses write operations.
func (c *Client) ReadOnly() bool {
	return c.readOnly
}

// Close closes the connection. The ClosedHandler publishes the final
// disconnected status.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// IsConnected returns true if the client is currently connected.
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Stats returns transport statistics for the activity view.
func (c *Client) Stats() nats.Statistics {
	if c.conn != nil {
		return c.conn.Stats()
	}
	return nats.Statistics{}
}

// ServerInfo returns the server the client is talking to.
func (c *Client) ServerInfo() (string, error) {
	if c.conn == nil {
		return "", ErrNotConnected
	}
	servers := c.conn.Servers()
	if len(servers) > 0 {
		return servers[0], nil
	}
	return "unknown", nil
}

// Ping checks the connection round-trip within the context deadline.
func (c *Client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	done := make(chan error, 1)
	go func() {
		done <- c.conn.FlushTimeout(2 * time.Second)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
