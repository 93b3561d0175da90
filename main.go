package main

import (
	"log"
	"time"

	"wordclash/config"
	"wordclash/handlers"
	"wordclash/middleware"
	"wordclash/models"
	"wordclash/routes"
	"wordclash/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env when present, then configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.WordList{},
		&models.Word{},
		&models.GameSessionRecord{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	wordListService := services.NewWordListService(db)
	sessionStore := services.NewDBSessionStore(db, redisClient)
	questionBank := services.NewQuestionBank()
	gameService := services.NewGameService(sessionStore, questionBank)

	// Rate limiter for the game surface
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	go func() {
		for range time.Tick(5 * time.Minute) {
			rateLimiter.Cleanup()
		}
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	wordListHandler := handlers.NewWordListHandler(wordListService)
	gameHandler := handlers.NewGameHandler(gameService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, wordListHandler, gameHandler, rateLimiter, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
