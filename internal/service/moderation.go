package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/metrics"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
	"github.com/Shivanand-hulikatti/college-events/internal/validator"
)

// transitions lists the statuses reachable from each status by moderation.
var transitions = map[model.Status][]model.Status{
	model.StatusDraft:    {model.StatusApproved, model.StatusRejected, model.StatusCancelled},
	model.StatusPending:  {model.StatusApproved, model.StatusRejected, model.StatusCancelled},
	model.StatusApproved: {model.StatusRejected, model.StatusCancelled},
}

// CanTransition reports whether moderation may move an event from one status to another.
func CanTransition(from, to model.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ModerationService applies admin status changes and notifies organizers.
type ModerationService struct {
	events EventStore
	sink   NotificationSink
	cache  CategoryCache
	log    zerolog.Logger
}

// NewModerationService constructs a ModerationService. A nil cache disables
// category cache invalidation.
func NewModerationService(events EventStore, sink NotificationSink, cache CategoryCache, log zerolog.Logger) *ModerationService {
	if cache == nil {
		cache = noCache{}
	}
	return &ModerationService{
		events: events,
		sink:   sink,
		cache:  cache,
		log:    log.With().Str("component", "moderation").Logger(),
	}
}

// SetStatus moves an event to approved, rejected or cancelled and tells the
// organizer. The status write is final once it commits: a failure to deliver
// the notification is logged, never returned.
func (s *ModerationService) SetStatus(ctx context.Context, eventID string, to model.Status, reason string, actor model.Identity) (*model.Event, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can change event status", ErrForbidden)
	}
	req := model.StatusChangeRequest{Status: to, Reason: strings.TrimSpace(reason)}
	if err := validator.Validate(ctx, req); err != nil {
		return nil, validationErr("%s", err)
	}
	reason = req.Reason

	current, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, translate(err, "event")
	}
	from := current.Status
	if !CanTransition(from, to) {
		return nil, validationErr("cannot move event from %s to %s", from, to)
	}

	updated, err := s.events.UpdateStatus(ctx, eventID, from, to)
	if err != nil {
		return nil, translate(err, "update status")
	}
	metrics.ModerationTransition(string(from), string(to))
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("category cache invalidate failed")
	}
	s.log.Info().
		Str("event_id", eventID).
		Str("actor_id", actor.UserID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("event status changed")

	n := statusNotification(updated, to, reason)
	if err := s.sink.Create(ctx, n); err != nil {
		metrics.NotificationFailure(metrics.StageStore)
		s.log.Error().Err(err).
			Str("event_id", eventID).
			Str("recipient_id", n.UserID).
			Msg("status notification not delivered")
	}
	return updated, nil
}

// statusNotification builds the organizer's notification for a status change.
func statusNotification(e *model.Event, to model.Status, reason string) *model.Notification {
	var (
		kind    model.NotificationType
		title   string
		message string
	)
	switch to {
	case model.StatusApproved:
		kind = model.NotificationSuccess
		title = "Event Approved"
		message = fmt.Sprintf("Great news! Your event %q has been approved and is now live!", e.Title)
	case model.StatusRejected:
		kind = model.NotificationError
		title = "Event Rejected"
		message = fmt.Sprintf("Your event %q has been rejected.", e.Title)
	default:
		kind = model.NotificationWarning
		title = "Event Cancelled"
		message = fmt.Sprintf("Your event %q has been cancelled.", e.Title)
	}
	if reason != "" {
		message += " Reason: " + reason
	}
	return &model.Notification{
		UserID:  e.OrganizerID,
		Type:    kind,
		Title:   title,
		Message: message,
		Link:    "/events/" + e.ID,
	}
}
