package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

// NotificationService serves a user's own notification inbox.
type NotificationService struct {
	store NotificationStore
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, who model.Identity, unreadOnly bool) ([]model.Notification, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	out, err := s.store.ListByUser(ctx, who.UserID, unreadOnly)
	return out, translate(err, "list notifications")
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, who model.Identity) (int64, error) {
	if who.IsAnonymous() {
		return 0, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	n, err := s.store.CountUnread(ctx, who.UserID)
	return n, translate(err, "count notifications")
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, who model.Identity, id string) (*model.Notification, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	n, err := s.store.MarkRead(ctx, id, who.UserID)
	if err != nil {
		return nil, translate(err, "notification")
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the caller as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, who model.Identity) (int64, error) {
	if who.IsAnonymous() {
		return 0, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	n, err := s.store.MarkAllRead(ctx, who.UserID)
	return n, translate(err, "mark notifications read")
}

// Delete removes one of the caller's notifications.
func (s *NotificationService) Delete(ctx context.Context, who model.Identity, id string) error {
	if who.IsAnonymous() {
		return fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	return translate(s.store.Delete(ctx, id, who.UserID), "notification")
}
