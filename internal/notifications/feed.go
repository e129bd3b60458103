package notifications

import (
	"context"
	"log/slog"

	"blog/internal/middleware"
	"blog/internal/observability"
)

// Feed publishes domain events. With Redis they reach every instance through
// the subscriber started by Start; without it they go straight to local clients.
type Feed struct {
	hub      *Hub
	notifier *Notifier
}

// NewFeed ties a hub to a notifier. notifier may be nil.
func NewFeed(hub *Hub, notifier *Notifier) *Feed {
	return &Feed{hub: hub, notifier: notifier}
}

// Hub returns the local client registry.
func (f *Feed) Hub() *Hub { return f.hub }

// Start subscribes the hub to Redis when available.
func (f *Feed) Start(ctx context.Context) error {
	if !f.notifier.Enabled() {
		return nil
	}
	return f.hub.StartWiring(ctx, f.notifier)
}

// Publish never fails the caller; delivery problems are logged.
func (f *Feed) Publish(ctx context.Context, eventType string, payload any) {
	if f == nil {
		return
	}
	observability.DomainEvents.WithLabelValues(eventType).Inc()

	raw, err := encode(eventType, payload)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode feed event", slog.String("error", err.Error()))
		return
	}

	if !f.notifier.Enabled() {
		f.hub.BroadcastAll(string(raw))
		return
	}
	if err := f.notifier.Publish(ctx, raw); err != nil {
		middleware.Logger.WarnContext(ctx, "feed publish failed, delivering locally",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		f.hub.BroadcastAll(string(raw))
	}
}
