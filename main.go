package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"personentry/pkg/api"
	"personentry/pkg/clients/sheets"
	"personentry/pkg/config"
	"personentry/pkg/middleware"
	"personentry/pkg/models"
	"personentry/pkg/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize the Apps Script client
	sheetsClient := sheets.NewClient(cfg.BackendAPIURL)

	// Initialize services
	records := services.NewRecordLog()
	notifier := services.NewNotifier(cfg.NotificationTTL)
	form := services.NewFormService(sheetsClient, records, notifier)

	// One-time startup advisory so the operator checks the backend wiring
	// before the first submission.
	notifier.Post(
		"This service forwards entries to a Google Apps Script backend. Make sure BACKEND_API_URL points at your deployed script.",
		models.SeverityInfo,
	)

	// Set Gin to release mode in production
	gin.SetMode(gin.DebugMode)

	// Create a new Gin router with default middleware
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Initialize handlers
	handlers := api.NewHandlers(form, records, notifier)

	// Register routes
	router.GET("/form", handlers.GetForm)
	router.POST("/form/fields", handlers.UpdateField)
	router.POST("/form/submit", handlers.SubmitForm)
	router.GET("/persons", handlers.ListPersons)
	router.GET("/notifications", handlers.ListNotifications)
	router.DELETE("/notifications/:id", handlers.DismissNotification)
	router.GET("/health", handlers.HealthCheck)

	// Get port from environment or default to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start the server
	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
