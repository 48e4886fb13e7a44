package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes hub events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("hub_id", event.HubID),
		slog.String("category", event.Category.String()),
	}
	if event.Channel != "" {
		attrs = append(attrs, slog.String("channel", event.Channel))
	}

	switch {
	case event.Subscription != nil:
		attrs = append(attrs,
			slog.Uint64("sub_id", event.Subscription.SubscriptionID),
			slog.String("action", event.Subscription.Action.String()),
			slog.Int("subscribers", event.Subscription.Subscribers),
		)
		if event.Subscription.HasContext {
			attrs = append(attrs, slog.Bool("has_context", true))
		}
	case event.Publish != nil:
		attrs = append(attrs,
			slog.String("occurrence", event.Publish.Occurrence),
			slog.Int("subscribers", event.Publish.Subscribers),
		)
	case event.Delivery != nil:
		attrs = append(attrs,
			slog.Uint64("sub_id", event.Delivery.SubscriptionID),
			slog.String("mode", event.Delivery.Mode.String()),
		)
	case event.Lifecycle != nil:
		attrs = append(attrs, slog.String("state", event.Lifecycle.State.String()))
		if event.Lifecycle.Released > 0 {
			attrs = append(attrs, slog.Int("released", event.Lifecycle.Released))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "hub", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
