package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/auth"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
	"github.com/Shivanand-hulikatti/college-events/internal/service"
)

// EventHandler serves the /api/events routes.
type EventHandler struct {
	events     *service.EventService
	moderation *service.ModerationService
	favorites  *service.FavoriteService
	log        zerolog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *service.EventService, moderation *service.ModerationService, favorites *service.FavoriteService, log zerolog.Logger) *EventHandler {
	return &EventHandler{events: events, moderation: moderation, favorites: favorites, log: log}
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := model.ListParams{
		Filter: model.EventFilter{
			Status:       model.Status(q.Get("status")),
			Category:     model.Category(q.Get("category")),
			EventType:    model.EventType(q.Get("eventType")),
			City:         q.Get("city"),
			College:      q.Get("college"),
			Search:       q.Get("search"),
			UpcomingOnly: q.Get("upcoming") == "true",
			FeaturedOnly: q.Get("featured") == "true",
		},
		SortBy:   q.Get("sort"),
		Order:    q.Get("order"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "limit", "pageSize"),
	}
	page, err := h.events.ListEvents(r.Context(), auth.FromContext(r.Context()), params)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writePage(w, page)
}

// Categories handles GET /api/events/categories
func (h *EventHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.events.Categories(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, counts)
}

// MyEvents handles GET /api/events/my-events
func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	page, err := h.events.MyEvents(r.Context(), auth.FromContext(r.Context()),
		model.Status(r.URL.Query().Get("status")), queryInt(r, "page"), queryInt(r, "limit", "pageSize"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writePage(w, page)
}

// GetEvent handles GET /api/events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := h.events.GetEvent(r.Context(), chi.URLParam(r, "id"), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, detail)
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var p eventPayload
	if err := decodeLenient(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	event, err := h.events.CreateEvent(r.Context(), auth.FromContext(r.Context()), p.toCreate())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /api/events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var p eventPayload
	if err := decodeLenient(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	event, err := h.events.UpdateEvent(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id"), p.toUpdate())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.DeleteEvent(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Event deleted successfully"})
}

// ToggleFavorite handles POST /api/events/{id}/favorite
func (h *EventHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	on, err := h.favorites.Toggle(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	msg := "Removed from favorites"
	if on {
		msg = "Added to favorites"
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: msg, Data: map[string]bool{"isFavorited": on}})
}

// Favorites handles GET /api/events/favorites
func (h *EventHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	events, err := h.favorites.ListFavorites(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeList(w, events)
}

// SetStatus handles PUT /api/events/{id}/status
func (h *EventHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusChangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	event, err := h.moderation.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.Reason, auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Event " + string(event.Status), Data: event})
}
