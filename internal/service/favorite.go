package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/metrics"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
	"github.com/Shivanand-hulikatti/college-events/internal/repository"
)

// FavoriteService manages the user/event favorite relation.
type FavoriteService struct {
	events    EventStore
	favorites FavoriteStore
	log       zerolog.Logger
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(events EventStore, favorites FavoriteStore, log zerolog.Logger) *FavoriteService {
	return &FavoriteService{
		events:    events,
		favorites: favorites,
		log:       log.With().Str("component", "favorites").Logger(),
	}
}

// Toggle flips the caller's favorite on an event and returns the new state.
// Favoriting requires the event to be visible to the caller; removing an
// existing favorite does not.
func (s *FavoriteService) Toggle(ctx context.Context, who model.Identity, eventID string) (bool, error) {
	if who.IsAnonymous() {
		return false, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	removed, err := s.favorites.Remove(ctx, who.UserID, eventID)
	if err != nil {
		return false, translate(err, "remove favorite")
	}
	if removed {
		metrics.FavoriteToggled(false)
		return false, nil
	}

	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return false, translate(err, "event")
	}
	if !e.VisibleTo(who) {
		return false, fmt.Errorf("%w: event", ErrNotFound)
	}
	if err := s.favorites.Add(ctx, who.UserID, eventID); err != nil {
		// A concurrent toggle got there first; the pair is favorited either way.
		if !errors.Is(err, repository.ErrDuplicate) {
			return false, translate(err, "add favorite")
		}
		s.log.Debug().Str("event_id", eventID).Str("user_id", who.UserID).Msg("favorite already present")
	}
	metrics.FavoriteToggled(true)
	return true, nil
}

// IsFavorited reports whether userID has favorited eventID.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, eventID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ok, err := s.favorites.Exists(ctx, userID, eventID)
	if err != nil {
		return false, translate(err, "check favorite")
	}
	return ok, nil
}

// ListFavorites returns the events userID favorited that are still visible
// to them, most recent first.
func (s *FavoriteService) ListFavorites(ctx context.Context, who model.Identity) ([]model.Event, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	events, err := s.favorites.ListEvents(ctx, who.UserID)
	if err != nil {
		return nil, translate(err, "list favorites")
	}
	visible := make([]model.Event, 0, len(events))
	for i := range events {
		if events[i].VisibleTo(who) {
			visible = append(visible, events[i])
		}
	}
	return visible, nil
}
