package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/auth"
	"github.com/Shivanand-hulikatti/college-events/internal/metrics"
	"github.com/Shivanand-hulikatti/college-events/internal/service"
)

// Services bundles the business services the API exposes.
type Services struct {
	Events        *service.EventService
	Moderation    *service.ModerationService
	Favorites     *service.FavoriteService
	Notifications *service.NotificationService
	Auth          *service.AuthService
}

// RouterConfig carries the cross-cutting pieces of the router.
type RouterConfig struct {
	Log         zerolog.Logger
	Tokens      *auth.TokenManager
	CORSOrigins []string
	// HealthProbe, when set, is checked by /api/health.
	HealthProbe func(context.Context) error
}

// NewRouter builds the full HTTP API.
func NewRouter(cfg RouterConfig, svc Services) http.Handler {
	authMW := auth.NewMiddleware(cfg.Tokens, cfg.Log)
	events := NewEventHandler(svc.Events, svc.Moderation, svc.Favorites, cfg.Log)
	accounts := NewAuthHandler(svc.Auth, cfg.Log)
	inbox := NewNotificationHandler(svc.Notifications, cfg.Log)
	health := NewHealthHandler(cfg.HealthProbe)

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Log))
	r.Use(metrics.Middleware)
	r.Use(CORS(cfg.CORSOrigins))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", accounts.Register)
			r.Post("/login", accounts.Login)
			r.Group(func(r chi.Router) {
				r.Use(authMW.Required)
				r.Get("/me", accounts.Me)
				r.Put("/profile", accounts.UpdateProfile)
				r.Put("/password", accounts.ChangePassword)
				r.With(authMW.Admin).Put("/promote/{userId}", accounts.Promote)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.With(authMW.Optional).Get("/", events.ListEvents)
			r.Get("/categories", events.Categories)
			r.With(authMW.Optional).Get("/{id}", events.GetEvent)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Required)
				r.Get("/favorites", events.Favorites)
				r.Get("/my-events", events.MyEvents)
				r.Post("/", events.CreateEvent)
				r.Put("/{id}", events.UpdateEvent)
				r.Delete("/{id}", events.DeleteEvent)
				r.Post("/{id}/favorite", events.ToggleFavorite)
				r.With(authMW.Admin).Put("/{id}/status", events.SetStatus)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(authMW.Required)
			r.Get("/", inbox.List)
			r.Get("/unread-count", inbox.UnreadCount)
			r.Put("/mark-all-read", inbox.MarkAllRead)
			r.Put("/{id}/read", inbox.MarkRead)
			r.Delete("/{id}", inbox.Delete)
		})
	})

	return r
}
