package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
	"github.com/Shivanand-hulikatti/college-events/internal/validator"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// EventService orchestrates event listing, lookup and authoring.
type EventService struct {
	events    EventStore
	favorites FavoriteStore
	cache     CategoryCache
	log       zerolog.Logger
}

// NewEventService constructs an EventService. A nil cache disables category caching.
func NewEventService(events EventStore, favorites FavoriteStore, cache CategoryCache, log zerolog.Logger) *EventService {
	if cache == nil {
		cache = noCache{}
	}
	return &EventService{
		events:    events,
		favorites: favorites,
		cache:     cache,
		log:       log.With().Str("component", "events").Logger(),
	}
}

// ListEvents returns one page of events. Callers other than admins only ever
// see approved events, whatever status they asked for.
func (s *EventService) ListEvents(ctx context.Context, who model.Identity, p model.ListParams) (*model.EventPage, error) {
	if !who.IsAdmin() {
		p.Filter.Status = model.StatusApproved
	} else if p.Filter.Status != "" && !p.Filter.Status.Valid() {
		return nil, validationErr("unknown status %q", p.Filter.Status)
	}
	return s.page(ctx, p)
}

// MyEvents lists the caller's own events in any status, newest first.
func (s *EventService) MyEvents(ctx context.Context, who model.Identity, status model.Status, page, pageSize int) (*model.EventPage, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	if status != "" && !status.Valid() {
		return nil, validationErr("unknown status %q", status)
	}
	return s.page(ctx, model.ListParams{
		Filter:   model.EventFilter{OrganizerID: who.UserID, Status: status},
		SortBy:   model.SortByCreatedAt,
		Order:    model.SortDesc,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *EventService) page(ctx context.Context, p model.ListParams) (*model.EventPage, error) {
	page, size := normalizePage(p.Page, p.PageSize)
	sortBy, order := normalizeSort(p.SortBy, p.Order)

	events, total, err := s.events.List(ctx, p.Filter, sortBy, order, size, (page-1)*size)
	if err != nil {
		return nil, translate(err, "list events")
	}
	if events == nil {
		events = []model.Event{}
	}
	return &model.EventPage{
		Events:     events,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func normalizeSort(sortBy, order string) (string, string) {
	switch sortBy {
	case model.SortByDate, model.SortByCreatedAt, model.SortByViews, model.SortByFavoritesCount:
	default:
		sortBy = model.SortByDate
	}
	if order != model.SortDesc {
		order = model.SortAsc
	}
	return sortBy, order
}

// GetEvent returns a visible event and counts the view. Events the requester
// may not see are reported as not found.
func (s *EventService) GetEvent(ctx context.Context, id string, who model.Identity) (*model.EventDetail, error) {
	e, err := s.visibleEvent(ctx, id, who)
	if err != nil {
		return nil, err
	}
	if err := s.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	e.Views++

	detail := &model.EventDetail{Event: *e}
	if !who.IsAnonymous() {
		fav, err := s.favorites.Exists(ctx, who.UserID, id)
		if err != nil {
			return nil, translate(err, "check favorite")
		}
		detail.IsFavorited = fav
	}
	return detail, nil
}

// IncrementViews adds one view. Stores with an atomic counter use it;
// others fall back to read-then-write, which can lose concurrent increments.
func (s *EventService) IncrementViews(ctx context.Context, id string) error {
	if vc, ok := s.events.(ViewCounter); ok {
		return translate(vc.IncrementViews(ctx, id), "increment views")
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return translate(err, "increment views")
	}
	e.Views++
	_, err = s.events.Update(ctx, e, "views")
	return translate(err, "increment views")
}

// CreateEvent submits an event. Admin submissions go live immediately;
// everyone else's wait for moderation.
func (s *EventService) CreateEvent(ctx context.Context, who model.Identity, req model.CreateEventRequest) (*model.Event, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	trimCreate(&req)
	if err := validator.Validate(ctx, req); err != nil {
		return nil, validationErr("%s", err)
	}
	if err := checkDates(req.Date, req.EndDate, req.RegistrationDeadline); err != nil {
		return nil, err
	}

	e := &model.Event{
		Title:                req.Title,
		Description:          req.Description,
		Category:             req.Category,
		EventType:            req.EventType,
		Image:                req.Image,
		Date:                 req.Date.UTC(),
		EndDate:              utcPtr(req.EndDate),
		RegistrationDeadline: utcPtr(req.RegistrationDeadline),
		Venue:                req.Venue,
		City:                 req.City,
		State:                req.State,
		College:              req.College,
		OrganizerID:          who.UserID,
		RegistrationLink:     req.RegistrationLink,
		RegistrationFee:      req.RegistrationFee,
		MaxParticipants:      req.MaxParticipants,
		Tags:                 cleanList(req.Tags),
		Requirements:         cleanList(req.Requirements),
		Status:               model.StatusPending,
	}
	if e.EventType == "" {
		e.EventType = model.EventTypeOffline
	}
	if who.IsAdmin() {
		e.Status = model.StatusApproved
	}

	if err := s.events.Create(ctx, e); err != nil {
		return nil, translate(err, "create event")
	}
	s.invalidateCategories(ctx)
	s.log.Info().Str("event_id", e.ID).Str("organizer_id", who.UserID).Str("status", string(e.Status)).Msg("event created")

	created, err := s.events.GetByID(ctx, e.ID)
	if err != nil {
		return nil, translate(err, "reload event")
	}
	return created, nil
}

// UpdateEvent applies a partial update. Only the organizer or an admin may
// edit, and the moderation status is never touched here.
func (s *EventService) UpdateEvent(ctx context.Context, who model.Identity, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	if err := validator.Validate(ctx, req); err != nil {
		return nil, validationErr("%s", err)
	}
	e, err := s.editableEvent(ctx, id, who)
	if err != nil {
		return nil, err
	}

	if req.Featured != nil && !who.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can feature events", ErrForbidden)
	}

	columns := applyUpdate(e, req)
	if e.Title == "" {
		return nil, validationErr("title must not be empty")
	}
	if e.Description == "" {
		return nil, validationErr("description must not be empty")
	}
	if e.City == "" && e.College == "" {
		return nil, validationErr("city or college is required")
	}
	if err := checkDates(e.Date, e.EndDate, e.RegistrationDeadline); err != nil {
		return nil, err
	}
	e.Organizer = nil

	updated, err := s.events.Update(ctx, e, columns...)
	if err != nil {
		return nil, translate(err, "update event")
	}
	if req.Category != nil {
		s.invalidateCategories(ctx)
	}
	return updated, nil
}

// DeleteEvent removes an event and every favorite pointing at it.
func (s *EventService) DeleteEvent(ctx context.Context, who model.Identity, id string) error {
	if who.IsAnonymous() {
		return fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	if _, err := s.editableEvent(ctx, id, who); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return translate(err, "delete event")
	}
	s.invalidateCategories(ctx)
	s.log.Info().Str("event_id", id).Str("actor_id", who.UserID).Msg("event deleted")
	return nil
}

// Categories returns the approved-event count per category, served from the
// cache when one is configured.
func (s *EventService) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	counts, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("category cache read failed")
	}
	if ok {
		return counts, nil
	}
	counts, err = s.events.CategoryCounts(ctx)
	if err != nil {
		return nil, translate(err, "count categories")
	}
	if err := s.cache.Set(ctx, counts); err != nil {
		s.log.Warn().Err(err).Msg("category cache write failed")
	}
	return counts, nil
}

func (s *EventService) invalidateCategories(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("category cache invalidate failed")
	}
}

// visibleEvent loads an event and hides it from requesters outside the
// moderation gate.
func (s *EventService) visibleEvent(ctx context.Context, id string, who model.Identity) (*model.Event, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationErr("event id is required")
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "event")
	}
	if !e.VisibleTo(who) {
		return nil, fmt.Errorf("%w: event", ErrNotFound)
	}
	return e, nil
}

// editableEvent is visibleEvent plus the owner-or-admin check.
func (s *EventService) editableEvent(ctx context.Context, id string, who model.Identity) (*model.Event, error) {
	e, err := s.visibleEvent(ctx, id, who)
	if err != nil {
		return nil, err
	}
	if !e.IsOwnedBy(who.UserID) && !who.IsAdmin() {
		return nil, fmt.Errorf("%w: only the organizer or an admin may modify this event", ErrForbidden)
	}
	return e, nil
}

func checkDates(start time.Time, end, deadline *time.Time) error {
	if start.IsZero() {
		return validationErr("date is required")
	}
	if end != nil && end.Before(start) {
		return validationErr("endDate must not be before date")
	}
	if deadline != nil && deadline.After(start) {
		return validationErr("registrationDeadline must not be after date")
	}
	return nil
}

func trimCreate(r *model.CreateEventRequest) {
	for _, f := range []*string{&r.Title, &r.Description, &r.Image, &r.Venue, &r.City, &r.State, &r.College, &r.RegistrationLink} {
		*f = strings.TrimSpace(*f)
	}
}

// applyUpdate copies the non-nil fields of req onto e and returns the
// columns that changed.
func applyUpdate(e *model.Event, req model.UpdateEventRequest) []string {
	var cols []string
	setString := func(dst *string, src *string, col string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			cols = append(cols, col)
		}
	}
	setString(&e.Title, req.Title, "title")
	setString(&e.Description, req.Description, "description")
	setString(&e.Image, req.Image, "image")
	setString(&e.Venue, req.Venue, "venue")
	setString(&e.City, req.City, "city")
	setString(&e.State, req.State, "state")
	setString(&e.College, req.College, "college")
	setString(&e.RegistrationLink, req.RegistrationLink, "registration_link")

	if req.Category != nil {
		e.Category = *req.Category
		cols = append(cols, "category")
	}
	if req.EventType != nil {
		e.EventType = *req.EventType
		cols = append(cols, "event_type")
	}
	if req.Date != nil {
		e.Date = req.Date.UTC()
		cols = append(cols, "date")
	}
	if req.EndDate != nil {
		e.EndDate = utcPtr(req.EndDate)
		cols = append(cols, "end_date")
	}
	if req.RegistrationDeadline != nil {
		e.RegistrationDeadline = utcPtr(req.RegistrationDeadline)
		cols = append(cols, "registration_deadline")
	}
	if req.RegistrationFee != nil {
		e.RegistrationFee = *req.RegistrationFee
		cols = append(cols, "registration_fee")
	}
	if req.MaxParticipants != nil {
		e.MaxParticipants = *req.MaxParticipants
		cols = append(cols, "max_participants")
	}
	if req.Featured != nil {
		e.Featured = *req.Featured
		cols = append(cols, "featured")
	}
	if req.Tags != nil {
		e.Tags = cleanList(req.Tags)
		cols = append(cols, "tags")
	}
	if req.Requirements != nil {
		e.Requirements = cleanList(req.Requirements)
		cols = append(cols, "requirements")
	}
	return cols
}

// cleanList trims entries and drops empty ones; the result is never nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
