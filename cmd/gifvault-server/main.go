package main

import (
	"log"
	"os"

	"github.com/gifvault/gifvault/pkg/gifvault/auth"
	"github.com/gifvault/gifvault/pkg/gifvault/comments"
	"github.com/gifvault/gifvault/pkg/gifvault/database"
	"github.com/gifvault/gifvault/pkg/gifvault/gifs"
	"github.com/gifvault/gifvault/pkg/gifvault/giphy"
	"github.com/gifvault/gifvault/pkg/gifvault/models"
	"github.com/gifvault/gifvault/pkg/gifvault/ratings"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gifvault/gifvault/api/swagger"
)

// @title GifVault API
// @version 1.0
// @description Save GIFs from the Giphy search API into a personal collection, rate them, and comment on them.

// @contact.name GifVault Support
// @contact.url https://github.com/gifvault/gifvault

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	// Database settings from environment
	driver := os.Getenv("GIFVAULT_DB_DRIVER")
	dsn := os.Getenv("GIFVAULT_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("GIFVAULT_DB_PATH")
	}
	if dsn == "" {
		dsn = "gifvault.db"
	}

	// Connect to database
	if err := database.Connect(driver, dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if os.Getenv("GIPHY_API_KEY") == "" {
		log.Println("Warning: GIPHY_API_KEY not set - GIF search will fail")
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "gifvault",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Everything else requires a valid token
		protected := api.Group("", auth.AuthMiddleware())

		// Search proxy (external GIF source)
		giphyHandler := giphy.NewHandler(giphy.NewClient(""))
		giphyHandler.RegisterRoutes(protected)

		// Saved GIF collection
		gifsHandler := gifs.NewHandler(database.GetDB())
		gifsHandler.RegisterRoutes(protected)

		// Ratings
		ratingsHandler := ratings.NewHandler(database.GetDB())
		ratingsHandler.RegisterRoutes(protected)

		// Comments
		commentsHandler := comments.NewHandler(database.GetDB())
		commentsHandler.RegisterRoutes(protected)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting GifVault server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
