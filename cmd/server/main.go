package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"solarhub-transferdesk/internal/adapters/http/middleware"
	"solarhub-transferdesk/internal/adapters/http/routes"
	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "solarhub-transferdesk/docs" // Swagger docs
)

// @title SolarHub TransferDesk API
// @version 1.0
// @description Ownership transfer workflow for solar installations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@solarhub.example

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed admin user and demo sites
	if err := config.SeedData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Start the token expiry sweeper
	expiryService := services.NewExpiryService(
		repositories.NewTransferRepository(db),
		repositories.NewReviewRepository(db),
		cfg,
	)
	expiryService.Start()
	defer expiryService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SolarHub TransferDesk API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
