package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

type ctxKey struct{}

const bearerSchema = "Bearer "

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the caller identity, or the anonymous identity.
func FromContext(ctx context.Context) model.Identity {
	id, _ := ctx.Value(ctxKey{}).(model.Identity)
	return id
}

// Middleware resolves bearer tokens into request identities.
type Middleware struct {
	tokens *TokenManager
	log    zerolog.Logger
}

// NewMiddleware constructs a Middleware.
func NewMiddleware(tokens *TokenManager, log zerolog.Logger) *Middleware {
	return &Middleware{tokens: tokens, log: log.With().Str("component", "auth").Logger()}
}

// Optional attaches an identity when a valid token is present and lets the
// request through anonymously otherwise.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := m.resolve(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects requests without a valid token.
func (m *Middleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.resolve(r)
		if !ok {
			deny(w, http.StatusUnauthorized, "Not authorized, token missing or invalid")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Admin rejects callers that are not admins. It must run after Required.
func (m *Middleware) Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).IsAdmin() {
			deny(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) resolve(r *http.Request) (model.Identity, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerSchema) {
		return model.Identity{}, false
	}
	id, err := m.tokens.Parse(strings.TrimSpace(header[len(bearerSchema):]))
	if err != nil {
		m.log.Debug().Err(err).Msg("token rejected")
		return model.Identity{}, false
	}
	return id, true
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Success: false, Message: msg})
}
