// Package metrics holds the Prometheus collectors for the service and the
// HTTP middleware that feeds them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	moderationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_moderation_transitions_total",
			Help: "Event status changes applied by moderators",
		},
		[]string{"from", "to"},
	)

	notificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_delivery_failures_total",
			Help: "Notifications that could not be stored or published",
		},
		[]string{"stage"},
	)

	favoriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_favorite_toggles_total",
			Help: "Favorite toggles by resulting state",
		},
		[]string{"result"},
	)
)

// Notification failure stages.
const (
	StageStore   = "store"
	StagePublish = "publish"
)

// ModerationTransition records an applied status change.
func ModerationTransition(from, to string) {
	moderationTransitions.WithLabelValues(from, to).Inc()
}

// NotificationFailure records a notification lost at stage.
func NotificationFailure(stage string) {
	notificationFailures.WithLabelValues(stage).Inc()
}

// FavoriteToggled records a toggle that left the event favorited or not.
func FavoriteToggled(favorited bool) {
	result := "removed"
	if favorited {
		result = "added"
	}
	favoriteToggles.WithLabelValues(result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware counts and times every request, labelled by the matched chi
// route pattern so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, route, strconv.Itoa(status)}
		requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(labels...).Inc()
	})
}
