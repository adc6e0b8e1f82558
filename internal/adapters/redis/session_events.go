package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
)

// DefaultEventChannel is the Pub/Sub channel session-change events go out on.
const DefaultEventChannel = "auth:session-events"

// SessionEvents broadcasts session-change notifications over Redis Pub/Sub so
// every running instance (and every auth-state stream it serves) observes
// sign-in, sign-out, and refresh events. Redis Pub/Sub gives at-least-once,
// per-connection FIFO delivery, which matches the SessionEvents contract.
type SessionEvents struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewSessionEvents creates a Pub/Sub backed event bus on DefaultEventChannel.
func NewSessionEvents(client redis.UniversalClient, logger *slog.Logger) *SessionEvents {
	return NewSessionEventsWithChannel(client, DefaultEventChannel, logger)
}

// NewSessionEventsWithChannel creates a Pub/Sub backed event bus on a custom channel.
func NewSessionEventsWithChannel(client redis.UniversalClient, channel string, logger *slog.Logger) *SessionEvents {
	if logger == nil {
		logger = slog.Default()
	}
	if channel == "" {
		channel = DefaultEventChannel
	}
	return &SessionEvents{client: client, channel: channel, logger: logger}
}

// Publish broadcasts a session-change event to all subscribers.
func (e *SessionEvents) Publish(ctx context.Context, ev domainauth.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}
	if err := e.client.Publish(ctx, e.channel, data).Err(); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	return nil
}

// Subscribe registers a handler for session-change events. Events are
// delivered sequentially on a single goroutine per subscription, preserving
// publish order. The returned func tears the subscription down; it is safe to
// call more than once.
func (e *SessionEvents) Subscribe(ctx context.Context, handler func(domainauth.Event)) (func(), error) {
	sub := e.client.Subscribe(ctx, e.channel)

	// Force the subscription to be established before returning so callers
	// never miss events published immediately after Subscribe.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", e.channel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Channel() {
			var ev domainauth.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				e.logger.Warn("dropping undecodable session event", "error", err)
				continue
			}
			handler(ev)
		}
	}()

	unsubscribe := func() {
		// Closing the PubSub closes its Channel(), which stops the delivery
		// goroutine. Wait for it so no handler runs after teardown.
		if err := sub.Close(); err != nil {
			e.logger.Warn("close session event subscription", "error", err)
		}
		<-done
	}
	return unsubscribe, nil
}
