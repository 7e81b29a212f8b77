package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/talentbase/backend/internal/handlers"
	"github.com/talentbase/backend/internal/middleware"
	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/realtime"
	"github.com/talentbase/backend/internal/repositories"
	"github.com/talentbase/backend/internal/services"
	"github.com/talentbase/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.Follow{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(cfg.MongoDatabase)
	conversationRepo := repositories.NewMongoConversationRepository(mongoDB)
	messageRepo := repositories.NewMongoMessageRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)
	skillRepo := repositories.NewMongoSkillRepository(mongoDB)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)

	// --- Initialize Services ---
	notifier := services.NewNotificationService(notificationRepo, followRepo)
	chatService := services.NewChatService(conversationRepo, messageRepo, notifier)
	skillService := services.NewSkillService(skillRepo, notifier)
	manager := realtime.NewManager(conversationRepo, messageRepo, notificationRepo)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	switch cfg.AuthDriver {
	case "firebase":
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
		log.Println("Firebase authentication middleware applied to /api/v1 group.")
	default:
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		log.Println("JWT authentication middleware applied to /api/v1 group.")
	}

	// Chat routes
	chatHandler := handlers.NewChatHandler(chatService)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, notifier)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Skill routes
	skillHandler := handlers.NewSkillHandler(skillService)
	skillHandler.RegisterSkillRoutes(api)
	log.Println("Skill routes configured.")

	// Engagement event routes
	eventHandler := handlers.NewEventHandler(notifier)
	eventHandler.RegisterEventRoutes(api)
	log.Println("Event routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Live socket
	wsHandler := handlers.NewWSHandler(manager)
	wsHandler.RegisterWSRoutes(api)
	log.Println("Websocket route configured.")

	log.Println("All routes configured.")
}
