// Package repository implements persistence for events, users, favorites and
// notifications on top of gorm. It works against PostgreSQL and SQLite alike,
// so every query sticks to SQL both dialects understand.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

// ErrStaleStatus is returned when an event's status changed between read and write.
var ErrStaleStatus = errors.New("event status changed concurrently")

// sortColumns maps listing sort keys onto columns.
var sortColumns = map[string]string{
	model.SortByDate:           "date",
	model.SortByCreatedAt:      "created_at",
	model.SortByViews:          "views",
	model.SortByFavoritesCount: "favorites_count",
}

// EventRepository handles persistence for events.
type EventRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new event and assigns it a UUID.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error; err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event with its organizer attached, or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).Preload("Organizer").First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// List returns one page of events matching filter plus the total match count.
// sortBy must be a key of the listing sort set; unknown keys sort by date.
func (r *EventRepository) List(ctx context.Context, filter model.EventFilter, sortBy, order string, limit, offset int) ([]model.Event, int64, error) {
	base := r.applyFilter(r.db.WithContext(ctx).Model(&model.Event{}), filter).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	events := []model.Event{}
	if total == 0 {
		return events, 0, nil
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = sortColumns[model.SortByDate]
	}
	desc := order == model.SortDesc
	err := base.
		Preload("Organizer").
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// applyFilter adds one AND predicate per non-empty filter field.
func (r *EventRepository) applyFilter(q *gorm.DB, f model.EventFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.OrganizerID != "" {
		q = q.Where("organizer_id = ?", f.OrganizerID)
	}
	if f.College != "" {
		q = q.Where(`LOWER(college) LIKE ? ESCAPE '\'`, containsPattern(f.College))
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.FeaturedOnly {
		q = q.Where("featured = ?", true)
	}
	if f.UpcomingOnly {
		q = q.Where(clause.Gte{Column: clause.Column{Name: "date"}, Value: r.now()})
	}
	return q
}

// containsPattern turns free text into a case-folded LIKE pattern with the
// wildcard characters escaped.
func containsPattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// Update writes the named columns of e, zero values included, and returns
// the fresh record.
func (r *EventRepository) Update(ctx context.Context, e *model.Event, columns ...string) (*model.Event, error) {
	if len(columns) > 0 {
		res := r.db.WithContext(ctx).
			Model(&model.Event{ID: e.ID}).
			Select(columns).
			Omit(clause.Associations).
			Updates(e)
		if res.Error != nil {
			return nil, fmt.Errorf("update event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, e.ID)
}

// UpdateStatus moves an event from one status to another. The write only
// lands if the event is still in status from; otherwise ErrStaleStatus.
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, from, to model.Status) (*model.Event, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": r.now()})
	if res.Error != nil {
		return nil, fmt.Errorf("update event status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStaleStatus
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event together with every favorite pointing at it.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return fmt.Errorf("delete event favorites: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&model.Event{})
		if res.Error != nil {
			return fmt.Errorf("delete event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// IncrementViews bumps the view counter with a single UPDATE so concurrent
// readers never lose an increment.
func (r *EventRepository) IncrementViews(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryCounts returns how many approved events each category holds.
func (r *EventRepository) CategoryCounts(ctx context.Context) ([]model.CategoryCount, error) {
	counts := []model.CategoryCount{}
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", model.StatusApproved).
		Group("category").
		Order("COUNT(*) DESC").
		Order("category").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	return counts, nil
}
