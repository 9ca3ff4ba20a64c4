package routes

import (
	"agritoken-exchange/internal/adapters/http/handlers"
	"agritoken-exchange/internal/adapters/http/middleware"
	"agritoken-exchange/internal/adapters/persistence/repositories"
	"agritoken-exchange/internal/config"
	"agritoken-exchange/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	rateRepo := repositories.NewRateRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	contributorService := services.NewContributorService(userRepo, rateRepo)
	loanService := services.NewLoanService(loanRepo, contributorService)
	feedbackService := services.NewFeedbackService(cfg.SMTP)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	contributorHandler := handlers.NewContributorHandler(contributorService)
	loanHandler := handlers.NewLoanHandler(loanService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, contributorHandler,
		loanHandler, feedbackHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	contributorHandler *handlers.ContributorHandler,
	loanHandler *handlers.LoanHandler,
	feedbackHandler *handlers.FeedbackHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Contributor routes (Authenticated users)
	contributorRoutes := router.Group("/contributors")
	contributorRoutes.Use(middleware.AuthMiddleware(cfg))
	setupContributorRoutes(contributorRoutes, contributorHandler)

	// Loan routes (EMI estimate is public, the rest is role-gated)
	loanRoutes := router.Group("/loans")
	setupLoanRoutes(loanRoutes, loanHandler, cfg)

	// Feedback routes (Authenticated users, strict rate limit)
	feedbackRoutes := router.Group("/feedback")
	feedbackRoutes.Use(middleware.AuthMiddleware(cfg))
	feedbackRoutes.Use(middleware.StrictRateLimiter())
	feedbackRoutes.Post("/", feedbackHandler.Submit)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate-limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupContributorRoutes configures contributor listing and rate routes
func setupContributorRoutes(router fiber.Router, handler *handlers.ContributorHandler) {
	router.Get("/", handler.List)
	router.Get("/:username/rate", handler.GetRate)

	// Only the contributor themselves can publish a rate
	router.Put("/rate", middleware.ContributorOnly(), handler.SetRate)
}

// setupLoanRoutes configures loan application routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler, cfg *config.Config) {
	// Public EMI calculator (no account needed to estimate)
	router.Post("/emi", handler.Estimate)

	// Everything below requires a session
	router.Use(middleware.AuthMiddleware(cfg))

	// Farmer routes
	router.Post("/", middleware.FarmerOnly(), handler.Submit)
	router.Get("/my", middleware.FarmerOnly(), handler.ListMine)

	// Admin routes (GetByID stays open to any authenticated user)
	router.Get("/pending", middleware.AdminOnly(), handler.ListPending)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id/approve", middleware.AdminOnly(), handler.Approve)
	router.Put("/:id/reject", middleware.AdminOnly(), handler.Reject)
}
