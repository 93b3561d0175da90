package routes

import (
	"net/http"

	"wordclash/handlers"
	"wordclash/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	wordListHandler *handlers.WordListHandler,
	gameHandler *handlers.GameHandler,
	rateLimiter *middleware.RateLimiter,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes (teachers managing content)
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Word list routes
			wordLists := protected.Group("/wordlists")
			{
				wordLists.GET("", wordListHandler.GetUserWordLists)
				wordLists.POST("", wordListHandler.CreateWordList)
				wordLists.GET("/:id", wordListHandler.GetWordListByID)
				wordLists.PUT("/:id", wordListHandler.UpdateWordList)
				wordLists.DELETE("/:id", wordListHandler.DeleteWordList)
			}
		}

		// Game routes (public, rate limited, polled by the clients)
		games := api.Group("/games")
		games.Use(rateLimiter.Middleware())
		{
			games.POST("", gameHandler.HandleCommand)
			games.GET("", gameHandler.GetSession)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
