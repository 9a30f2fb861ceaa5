package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

// FavoriteRepository manages user/event favorite links. Every insert or
// delete adjusts the event's favorites_count in the same transaction.
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository constructs a FavoriteRepository.
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Exists reports whether userID has favorited eventID.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

// Add links userID to eventID and increments the event's counter.
// It returns ErrDuplicate if the link already exists and ErrNotFound if the
// event is gone.
func (r *FavoriteRepository) Add(ctx context.Context, userID, eventID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fav := model.Favorite{ID: uuid.NewString(), UserID: userID, EventID: eventID}
		if err := tx.Create(&fav).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert favorite: %w", err)
		}
		res := tx.Model(&model.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("increment favorites: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Remove deletes the link if present and decrements the event's counter,
// never below zero. It reports whether a link was removed.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, eventID string) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&model.Favorite{})
		if res.Error != nil {
			return fmt.Errorf("delete favorite: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		err := tx.Model(&model.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("favorites_count", gorm.Expr("CASE WHEN favorites_count > 0 THEN favorites_count - 1 ELSE 0 END")).Error
		if err != nil {
			return fmt.Errorf("decrement favorites: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// ListEvents returns the events userID favorited, most recently favorited first.
func (r *FavoriteRepository) ListEvents(ctx context.Context, userID string) ([]model.Event, error) {
	events := []model.Event{}
	err := r.db.WithContext(ctx).
		Preload("Organizer").
		Joins("JOIN favorites ON favorites.event_id = events.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list favorite events: %w", err)
	}
	return events, nil
}
