package service

import (
	"context"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

// EventStore is the persistence the event and moderation services need.
// repository.EventRepository satisfies it.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter, sortBy, order string, limit, offset int) ([]model.Event, int64, error)
	Update(ctx context.Context, e *model.Event, columns ...string) (*model.Event, error)
	UpdateStatus(ctx context.Context, id string, from, to model.Status) (*model.Event, error)
	Delete(ctx context.Context, id string) error
	CategoryCounts(ctx context.Context) ([]model.CategoryCount, error)
}

// ViewCounter is implemented by stores that can bump the view counter in a
// single atomic statement.
type ViewCounter interface {
	IncrementViews(ctx context.Context, id string) error
}

// FavoriteStore persists the user/event favorite relation.
type FavoriteStore interface {
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) (bool, error)
	ListEvents(ctx context.Context, userID string) ([]model.Event, error)
}

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id string, updates map[string]any) (*model.User, error)
}

// NotificationSink receives notifications produced by domain operations.
type NotificationSink interface {
	Create(ctx context.Context, n *model.Notification) error
}

// CategoryCache holds the approved-events-per-category counts.
// Get reports a miss with ok=false.
type CategoryCache interface {
	Get(ctx context.Context) (counts []model.CategoryCount, ok bool, err error)
	Set(ctx context.Context, counts []model.CategoryCount) error
	Invalidate(ctx context.Context) error
}

type noCache struct{}

func (noCache) Get(context.Context) ([]model.CategoryCount, bool, error) { return nil, false, nil }
func (noCache) Set(context.Context, []model.CategoryCount) error { return nil }
func (noCache) Invalidate(context.Context) error { return nil }
