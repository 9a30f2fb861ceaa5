// Package notify delivers notifications: it stores them in the inbox and,
// when a broker is configured, publishes them for out-of-band consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/metrics"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

// Store persists notifications.
type Store interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Publisher hands serialized messages to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Sink stores a notification and then publishes it. Storing is the delivery
// guarantee; publishing is best effort.
type Sink struct {
	store     Store
	publisher Publisher
	log       zerolog.Logger
}

// NewSink constructs a Sink. publisher may be nil.
func NewSink(store Store, publisher Publisher, log zerolog.Logger) *Sink {
	return &Sink{store: store, publisher: publisher, log: log.With().Str("component", "notify").Logger()}
}

// Create stores n and publishes it when a publisher is configured.
func (s *Sink) Create(ctx context.Context, n *model.Notification) error {
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if s.publisher == nil {
		return nil
	}
	body, err := json.Marshal(n)
	if err != nil {
		s.log.Error().Err(err).Str("notification_id", n.ID).Msg("encode notification")
		return nil
	}
	if err := s.publisher.Publish(ctx, "notification."+string(n.Type), body); err != nil {
		metrics.NotificationFailure(metrics.StagePublish)
		s.log.Warn().Err(err).Str("notification_id", n.ID).Str("user_id", n.UserID).Msg("notification not published")
	}
	return nil
}
