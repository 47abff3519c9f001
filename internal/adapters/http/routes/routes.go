package routes

import (
	"log"

	"solarhub-transferdesk/internal/adapters/http/handlers"
	"solarhub-transferdesk/internal/adapters/http/middleware"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/services"
	"solarhub-transferdesk/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	siteRepo := repositories.NewSiteRepository(db)
	transferRepo := repositories.NewTransferRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	infoRepo := repositories.NewInfoRequestRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService(notificationRepo, services.NewLogEmailSender())
	authService := services.NewAuthService(userRepo, cfg)
	tokenService := services.NewTokenService(transferRepo, siteRepo, reviewRepo, notifyService, cfg)
	validator := services.NewValidationService()
	store, err := storage.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("❌ Failed to prepare upload storage: %v", err)
	}
	submissionService := services.NewSubmissionService(
		transferRepo, docRepo, reviewRepo, infoRepo, tokenService, validator, store,
	)
	reviewService := services.NewReviewService(
		transferRepo, reviewRepo, infoRepo, userRepo,
		validator, services.NewLocalAccountProvisioner(), notifyService, cfg,
	)
	analyticsService := services.NewAnalyticsService(transferRepo, reviewRepo, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	transferHandler := handlers.NewTransferHandler(tokenService, reviewService, cfg)
	publicHandler := handlers.NewPublicHandler(tokenService, submissionService, cfg)
	dashboardHandler := handlers.NewDashboardHandler(analyticsService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, transferHandler, dashboardHandler, cfg)

	// Public token-scoped group (no authentication, stricter rate limit)
	public := app.Group("/public")
	setupPublicRoutes(public, publicHandler)
}

// setupAPIV1Routes configures the staff API routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	transferHandler *handlers.TransferHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// Auth routes
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Transfer routes (Officer/Admin only)
	transferRoutes := router.Group("/transfers")
	transferRoutes.Use(middleware.AuthMiddleware(cfg))
	transferRoutes.Use(middleware.OfficerOrAdmin())
	setupTransferRoutes(transferRoutes, transferHandler)

	// Dashboard & analytics routes (Officer/Admin only)
	router.Get("/dashboard",
		middleware.AuthMiddleware(cfg), middleware.OfficerOrAdmin(), dashboardHandler.GetDashboard)
	router.Get("/analytics",
		middleware.AuthMiddleware(cfg), middleware.OfficerOrAdmin(), dashboardHandler.GetAnalytics)
}

// setupTransferRoutes configures staff transfer routes
func setupTransferRoutes(router fiber.Router, handler *handlers.TransferHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/extend", handler.ExtendToken)
	router.Put("/:id/assign", handler.Assign)
	router.Post("/:id/start-review", handler.StartReview)
	router.Post("/:id/approve", handler.Approve)
	router.Post("/:id/reject", handler.Reject)
	router.Post("/:id/request-info", handler.RequestInfo)
	router.Post("/:id/complete", handler.Complete)
	router.Get("/:id/history", handler.GetHistory)
	router.Get("/:id/validation", handler.GetValidation)
}

// setupPublicRoutes configures the homeowner token-scoped routes
func setupPublicRoutes(router fiber.Router, handler *handlers.PublicHandler) {
	router.Use(middleware.PublicRateLimiter())
	router.Use(middleware.NoCacheHeaders())

	router.Get("/transfers/validate/:token", handler.ValidateToken)
	router.Post("/transfers/submit/:token", handler.Submit)
	router.Post("/transfers/upload/:token", handler.UploadDocument)
}
