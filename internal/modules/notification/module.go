package notification

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/application"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/infrastructure/cache"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/infrastructure/persistence/postgres"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/infrastructure/websocket"
	notification_http "github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/interfaces/http"
	userDomain "github.com/wayfarerhq/wayfarer-backend/internal/modules/user/domain"
)

type Module struct {
	service *application.NotificationService
	handler *notification_http.NotificationHandler
	hub     *websocket.Hub
}

func NewModule(db *sqlx.DB, redisClient *redis.Client, users userDomain.UserFinder, posts application.PostResolver, jwtSecret string) *Module {
	repo := postgres.NewPgNotificationRepository(db)
	hub := websocket.NewHub()
	unreadCache := cache.NewRedisUnreadCache(redisClient)

	service := application.NewNotificationService(repo, users, posts, hub, unreadCache)
	handler := notification_http.NewNotificationHandler(service, hub, jwtSecret)

	return &Module{
		service: service,
		handler: handler,
		hub:     hub,
	}
}

func (m *Module) HTTPHandler() *notification_http.NotificationHandler {
	return m.handler
}

func (m *Module) Service() *application.NotificationService {
	return m.service
}

func (m *Module) Hub() *websocket.Hub {
	return m.hub
}
