// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/auth"
	"github.com/Shivanand-hulikatti/college-events/internal/cache"
	"github.com/Shivanand-hulikatti/college-events/internal/config"
	"github.com/Shivanand-hulikatti/college-events/internal/database"
	"github.com/Shivanand-hulikatti/college-events/internal/handler"
	"github.com/Shivanand-hulikatti/college-events/internal/logger"
	"github.com/Shivanand-hulikatti/college-events/internal/notify"
	"github.com/Shivanand-hulikatti/college-events/internal/repository"
	"github.com/Shivanand-hulikatti/college-events/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	// ── 1. Connect to the record store ───────────────────────────────────
	store, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer store.Close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	// ── 2. Optional infrastructure ───────────────────────────────────────
	var publisher notify.Publisher
	if cfg.Broker.URL != "" {
		rabbit, err := notify.NewRabbitPublisher(cfg.Broker.URL, cfg.Broker.Exchange, log)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, notifications will not be published")
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	var categories service.CategoryCache
	if cfg.Cache.Addr != "" {
		redisCache, err := cache.NewCategoryCache(ctx, cfg.Cache)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, category counts will not be cached")
		} else {
			defer redisCache.Close()
			categories = redisCache
		}
	}

	// ── 3. Wire up layers ────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(store.DB)
	favoriteRepo := repository.NewFavoriteRepository(store.DB)
	notificationRepo := repository.NewNotificationRepository(store.DB)
	userRepo := repository.NewUserRepository(store.DB)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sink := notify.NewSink(notificationRepo, publisher, log)

	svc := handler.Services{
		Events:        service.NewEventService(eventRepo, favoriteRepo, categories, log),
		Moderation:    service.NewModerationService(eventRepo, sink, categories, log),
		Favorites:     service.NewFavoriteService(eventRepo, favoriteRepo, log),
		Notifications: service.NewNotificationService(notificationRepo),
		Auth:          service.NewAuthService(userRepo, tokens, log),
	}

	if cfg.Auth.AdminEmail != "" {
		admin, err := svc.Auth.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info().Str("user_id", admin.ID).Msg("admin account ready")
	}

	// ── 4. Build the router ──────────────────────────────────────────────
	router := handler.NewRouter(handler.RouterConfig{
		Log:         log,
		Tokens:      tokens,
		CORSOrigins: cfg.Server.CORSOrigins,
		HealthProbe: func(ctx context.Context) error {
			sqlDB, err := store.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, svc)

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Block until SIGINT, SIGTERM or a listener failure.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
