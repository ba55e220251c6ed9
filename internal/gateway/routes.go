package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wayfarerhq/wayfarer-backend/internal/gateway/middleware"
	engagement_http "github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/interfaces/http"
	notification_http "github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/interfaces/http"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	AuthMiddleware      *middleware.AuthMiddleware
	NotificationHandler *notification_http.NotificationHandler
	EngagementHandler   *engagement_http.EngagementHandler
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health Check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Notification Routes
	mux.Handle("GET /notifications", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.ListNotifications)))
	mux.Handle("GET /notifications/unread", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.ListUnread)))
	mux.Handle("GET /notifications/unread-count", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.UnreadCount)))
	mux.Handle("PATCH /notifications/{id}/read", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.MarkAsRead)))
	mux.Handle("PATCH /notifications/read-all", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.NotificationHandler.MarkAllAsRead)))

	// WebSocket subscription. No auth middleware here: credentials are
	// validated inside the handshake so failures can be reported in-band.
	mux.HandleFunc("GET /ws", config.NotificationHandler.Subscribe)

	// Engagement Routes
	mux.Handle("GET /posts/{id}", config.AuthMiddleware.FlexibleAuth(http.HandlerFunc(config.EngagementHandler.GetPost)))
	mux.Handle("POST /posts/{id}/like", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.EngagementHandler.ToggleLike)))
	mux.Handle("POST /posts/{id}/comments", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.EngagementHandler.AddComment)))
	mux.Handle("DELETE /comments/{id}", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.EngagementHandler.RemoveComment)))
	mux.Handle("POST /users/{id}/follow", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.EngagementHandler.FollowUser)))
	mux.Handle("DELETE /users/{id}/follow", config.AuthMiddleware.RequireAuth(http.HandlerFunc(config.EngagementHandler.UnfollowUser)))

	return mux
}
