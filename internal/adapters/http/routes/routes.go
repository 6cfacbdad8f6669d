package routes

import (
	"unipass-backend/internal/adapters/http/handlers"
	"unipass-backend/internal/adapters/http/middleware"
	"unipass-backend/internal/adapters/persistence/repositories"
	"unipass-backend/internal/config"
	"unipass-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	schoolRepo := repositories.NewSchoolRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	partnerRepo := repositories.NewPartnerRepository(db)
	promotionRepo := repositories.NewPromotionRepository(db)
	redemptionRepo := repositories.NewRedemptionRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, schoolRepo, partnerRepo)
	schoolService := services.NewSchoolService(schoolRepo, memberRepo)
	memberService := services.NewMemberService(memberRepo, schoolRepo)
	partnerService := services.NewPartnerService(partnerRepo)
	promotionService := services.NewPromotionService(promotionRepo, partnerRepo)

	notifyService := services.NewNotificationService()

	validationService := services.NewValidationService(
		memberRepo,
		partnerRepo,
		promotionRepo,
		redemptionRepo,
		notifyService,
	)

	dashboardService := services.NewDashboardService(db, redemptionRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	schoolHandler := handlers.NewSchoolHandler(schoolService)
	memberHandler := handlers.NewMemberHandler(memberService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	promotionHandler := handlers.NewPromotionHandler(promotionService)
	validationHandler := handlers.NewValidationHandler(validationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, schoolHandler,
		memberHandler, partnerHandler, promotionHandler, validationHandler,
		dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	schoolHandler *handlers.SchoolHandler,
	memberHandler *handlers.MemberHandler,
	partnerHandler *handlers.PartnerHandler,
	promotionHandler *handlers.PromotionHandler,
	validationHandler *handlers.ValidationHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	profileRoutes.Put("/password", userHandler.ChangePassword)

	// School routes (Admin only)
	schoolRoutes := router.Group("/schools")
	schoolRoutes.Use(middleware.AuthMiddleware(cfg))
	schoolRoutes.Use(middleware.AdminOnly())
	setupSchoolRoutes(schoolRoutes, schoolHandler)

	// Member routes (School role)
	memberRoutes := router.Group("/members")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	memberRoutes.Use(middleware.SchoolOnly())
	setupMemberRoutes(memberRoutes, memberHandler)

	// Partner routes (Admin, plus partner self-service)
	partnerRoutes := router.Group("/partners")
	partnerRoutes.Use(middleware.AuthMiddleware(cfg))
	setupPartnerRoutes(partnerRoutes, partnerHandler)

	// Promotion routes (Partner role)
	promotionRoutes := router.Group("/promotions")
	promotionRoutes.Use(middleware.AuthMiddleware(cfg))
	promotionRoutes.Use(middleware.PartnerOnly())
	setupPromotionRoutes(promotionRoutes, promotionHandler)

	// Validation routes (Partner role)
	validationRoutes := router.Group("/validation")
	validationRoutes.Use(middleware.AuthMiddleware(cfg))
	validationRoutes.Use(middleware.PartnerOnly())
	validationRoutes.Use(middleware.NoCacheHeaders())
	setupValidationRoutes(validationRoutes, validationHandler)

	// Dashboard routes
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Post("/", handler.CreateUser)
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupSchoolRoutes configures school routes (Admin only)
func setupSchoolRoutes(router fiber.Router, handler *handlers.SchoolHandler) {
	router.Post("/", handler.CreateSchool)
	router.Get("/", handler.ListSchools)
	router.Get("/:id", handler.GetSchool)
	router.Put("/:id", handler.UpdateSchool)
	router.Delete("/:id", handler.DeleteSchool)
}

// setupMemberRoutes configures member routes (School role)
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	router.Post("/", handler.EnrollMember)
	router.Get("/", handler.ListMembers)
	router.Get("/:id", handler.GetMember)
	router.Put("/:id", handler.UpdateMember)
	router.Post("/:id/reissue-card", middleware.StrictRateLimiter(), handler.ReissueCard)
	router.Delete("/:id", handler.DeleteMember)
}

// setupPartnerRoutes configures partner routes
func setupPartnerRoutes(router fiber.Router, handler *handlers.PartnerHandler) {
	// Partner self-service
	router.Put("/me/standard-benefit", middleware.PartnerOnly(), handler.UpdateStandardBenefit)

	// Admin only
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/", handler.CreatePartner)
	adminRoutes.Get("/", handler.ListPartners)
	adminRoutes.Get("/:id", handler.GetPartner)
	adminRoutes.Put("/:id", handler.UpdatePartner)
	adminRoutes.Delete("/:id", handler.DeletePartner)
}

// setupPromotionRoutes configures promotion routes (Partner role)
func setupPromotionRoutes(router fiber.Router, handler *handlers.PromotionHandler) {
	router.Post("/", handler.CreatePromotion)
	router.Get("/", handler.ListPromotions)
	router.Get("/:id", handler.GetPromotion)
	router.Put("/:id", handler.UpdatePromotion)
	router.Delete("/:id", handler.DeletePromotion)
}

// setupValidationRoutes configures card validation routes (Partner role)
func setupValidationRoutes(router fiber.Router, handler *handlers.ValidationHandler) {
	router.Post("/scan", handler.Scan)
	router.Post("/cpf", handler.LookupByCPF)
	router.Post("/redeem", handler.Redeem)
	router.Get("/history", handler.History)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/admin", middleware.AdminOnly(), handler.GetAdminDashboard)
	router.Get("/school", middleware.SchoolOnly(), handler.GetSchoolDashboard)
	router.Get("/partner", middleware.PartnerOnly(), handler.GetPartnerDashboard)
}
