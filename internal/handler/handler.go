// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
	"github.com/Shivanand-hulikatti/college-events/internal/service"
)

const maxBodyBytes = 1 << 20

// envelope is the success body shared by every endpoint.
type envelope struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Count       *int   `json:"count,omitempty"`
	Total       *int64 `json:"total,omitempty"`
	TotalPages  *int   `json:"totalPages,omitempty"`
	CurrentPage *int   `json:"currentPage,omitempty"`
	Data        any    `json:"data,omitempty"`
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: items})
}

func writePage(w http.ResponseWriter, page *model.EventPage) {
	n := len(page.Events)
	writeJSON(w, http.StatusOK, envelope{
		Success:     true,
		Count:       &n,
		Total:       &page.Total,
		TotalPages:  &page.TotalPages,
		CurrentPage: &page.Page,
		Data:        page.Events,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Success: false, Message: msg})
}

// decodeJSON reads a size-limited body and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// decodeLenient is decodeJSON without the unknown-field check, for payloads
// whose older shape carried fields this service ignores.
func decodeLenient(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError maps a service error kind onto a status code. Dependency
// failures are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, detail(err, service.ErrValidation))
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, capitalize(detail(err, service.ErrNotFound)+" not found"))
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, capitalize(detail(err, service.ErrUnauthorized)))
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, capitalize(detail(err, service.ErrForbidden)))
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, capitalize(detail(err, service.ErrConflict)))
	case errors.Is(err, context.Canceled):
		log.Debug().Err(err).Msg("request cancelled")
		writeError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// detail strips the "<kind>: " prefix added when the error was wrapped.
func detail(err, kind error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		msg = rest
	}
	if i := strings.Index(msg, ": "); i > 0 && kind != service.ErrValidation {
		msg = msg[:i]
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func queryInt(r *http.Request, keys ...string) int {
	for _, k := range keys {
		if v := r.URL.Query().Get(k); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0
			}
			return n
		}
	}
	return 0
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthHandler reports liveness and, when a probe is set, store reachability.
type HealthHandler struct {
	probe func(context.Context) error
}

// NewHealthHandler constructs a HealthHandler. probe may be nil.
func NewHealthHandler(probe func(context.Context) error) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	if h.probe != nil {
		if err := h.probe(r.Context()); err != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Message: "Database unreachable", Data: status})
			return
		}
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Server is running", Data: status})
}
