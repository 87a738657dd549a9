package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultChannel is the Pub/Sub channel diagram views subscribe to.
const DefaultChannel = "surligne:diagram"

// Message is the JSON payload published for one notification batch.
type Message struct {
	Workspace string                  `json:"workspace,omitempty"`
	Changes   []domain.SettingsChange `json:"changes"`
}

// Notifier implements ports.Notifier by publishing on a Redis channel.
type Notifier struct {
	client    *backend.Client
	channel   string
	workspace string
	logger    *slog.Logger
}

type Option func(*Notifier)

// WithChannel sets the Pub/Sub channel.
func WithChannel(channel string) Option {
	return func(n *Notifier) {
		n.channel = channel
	}
}

// WithWorkspace tags every published message with a workspace ID.
func WithWorkspace(id string) Option {
	return func(n *Notifier) {
		n.workspace = id
	}
}

// WithLogger sets the logger used by subscriptions to report undecodable messages.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// New creates a new Redis notifier with options.
func New(address, password string, db int, opts ...Option) *Notifier {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis notifier from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Notifier {
	n := &Notifier{
		client:  client,
		channel: DefaultChannel,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Channel returns the channel the notifier publishes on.
func (n *Notifier) Channel() string {
	return n.channel
}

// ForWorkspace returns a notifier sharing the client and channel, tagging its
// messages with id. Closing either closes the shared client.
func (n *Notifier) ForWorkspace(id string) *Notifier {
	c := *n
	c.workspace = id
	return &c
}

// Notify publishes the batch as a single JSON message.
func (n *Notifier) Notify(ctx context.Context, changes []domain.SettingsChange) error {
	if len(changes) == 0 {
		return nil
	}
	data, err := json.Marshal(Message{Workspace: n.workspace, Changes: changes})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Subscribe listens on the notifier's channel and decodes every message.
// The returned channel is closed when ctx is done or the subscription fails;
// the returned function closes the subscription early.
func (n *Notifier) Subscribe(ctx context.Context) (<-chan Message, func() error, error) {
	pubsub := n.client.Subscribe(ctx, n.channel)
	// Wait for the subscription confirmation so no publish is missed afterwards.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", n.channel, err)
	}

	out := make(chan Message, 16)
	go func() {
		defer close(out)
		in := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					n.logger.Warn("redis: dropping undecodable diagram message", "channel", raw.Channel, "error", err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					_ = pubsub.Close()
					return
				}
			}
		}
	}()
	return out, pubsub.Close, nil
}

// Close closes the underlying client.
func (n *Notifier) Close() error {
	return n.client.Close()
}
