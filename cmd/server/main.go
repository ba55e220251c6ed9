package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/wayfarerhq/wayfarer-backend/internal/gateway"
	"github.com/wayfarerhq/wayfarer-backend/internal/gateway/middleware"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification"
	user_postgres "github.com/wayfarerhq/wayfarer-backend/internal/modules/user/infrastructure/persistence/postgres"
	"github.com/wayfarerhq/wayfarer-backend/internal/shared/infrastructure/config"
	"github.com/wayfarerhq/wayfarer-backend/internal/shared/infrastructure/database"
	"github.com/wayfarerhq/wayfarer-backend/pkg/migration"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := migration.AutoMigrate(cfg.Database.URL(), cfg.Server.MigrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	// Module wiring. The engagement repository doubles as the post resolver
	// for notification composition, and the notification service is the
	// engagement module's notifier, so construction is interleaved.
	userRepo := user_postgres.NewUserRepository(db)
	engagementModule := engagement.NewModule(db)
	notificationModule := notification.NewModule(db, redisClient, userRepo, engagementModule.Repository(), cfg.JWT.Secret)
	engagementModule.Bind(notificationModule.Service())

	defer notificationModule.Hub().Shutdown()

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		AuthMiddleware:      middleware.NewAuthMiddleware(cfg.JWT.Secret),
		NotificationHandler: notificationModule.HTTPHandler(),
		EngagementHandler:   engagementModule.HTTPHandler(),
	})

	handler := middleware.CORSMiddleware(middleware.PrometheusMiddleware(mux), cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler)
	if err := server.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
