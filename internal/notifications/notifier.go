// Package notifications fans blog activity out to websocket feed clients.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"blog/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis channel every instance publishes feed events to.
const FeedChannel = "blog:events"

// Event types published on the feed.
const (
	EventPostCreated    = "post.created"
	EventPostUpdated    = "post.updated"
	EventPostDeleted    = "post.deleted"
	EventCommentCreated = "comment.created"
	EventCommentDeleted = "comment.deleted"
	EventLikeToggled    = "like.toggled"
)

// Event is the envelope written to feed clients.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Notifier publishes feed events into Redis and subscribes to them.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether events travel through Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// Publish sends an encoded event to the feed channel.
func (n *Notifier) Publish(ctx context.Context, payload []byte) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, FeedChannel, payload).Err()
}

// StartSubscriber subscribes to the feed channel and calls onMessage for every
// payload until ctx is cancelled. It returns once the subscription is live.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in feed subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}

func encode(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(Event{Type: eventType, Payload: payload, At: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return raw, nil
}
