package routes

import (
	"time"

	"sfa-welfarehub/internal/adapters/authprovider"
	"sfa-welfarehub/internal/adapters/http/handlers"
	"sfa-welfarehub/internal/adapters/http/middleware"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/adapters/storage"
	"sfa-welfarehub/internal/config"
	"sfa-welfarehub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so main can stop it on shutdown
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(db)
	mirrorRepo := repositories.NewMirrorRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	counterRepo := repositories.NewCounterRepository(db)
	beneficiaryRepo := repositories.NewBeneficiaryRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)

	// Credential and document stores
	credStore := authprovider.NewCredentialStore(db)
	blobStore := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)

	// Initialize services
	sfaIDService := services.NewSfaIDService(counterRepo, auditRepo)
	authService := services.NewAuthService(memberRepo, mirrorRepo, refreshTokenRepo, credStore, sfaIDService, cfg)
	userService := services.NewUserService(memberRepo, mirrorRepo, credStore)
	beneficiaryService := services.NewBeneficiaryService(beneficiaryRepo, memberRepo, auditRepo)
	accountAdminService := services.NewAccountAdminService(memberRepo, mirrorRepo, credStore, auditRepo)
	paymentService := services.NewPaymentService(paymentRepo, memberRepo)
	announcementService := services.NewAnnouncementService(announcementRepo)
	cronService := services.NewCronService(refreshTokenRepo, beneficiaryRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	beneficiaryHandler := handlers.NewBeneficiaryHandler(beneficiaryService, authService, blobStore)
	accountAdminHandler := handlers.NewAccountAdminHandler(accountAdminService)
	counterHandler := handlers.NewCounterHandler(sfaIDService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded documents (served to authenticated members)
	app.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, userHandler, beneficiaryHandler,
		accountAdminHandler, counterHandler, paymentHandler,
		announcementHandler, auditHandler, cfg)

	return cronService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	beneficiaryHandler *handlers.BeneficiaryHandler,
	accountAdminHandler *handlers.AccountAdminHandler,
	counterHandler *handlers.CounterHandler,
	paymentHandler *handlers.PaymentHandler,
	announcementHandler *handlers.AnnouncementHandler,
	auditHandler *handlers.AuditHandler,
	cfg *config.Config,
) {
	// Auth routes (public, rate limited, never cached)
	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Profile routes (authenticated members)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	profileRoutes.Get("/", userHandler.GetProfile)
	profileRoutes.Patch("/", userHandler.UpdateProfile)
	profileRoutes.Post("/password", middleware.AuthRateLimiter(), userHandler.ChangePassword)

	// Member directory routes (admin scope, role changes founder only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	userRoutes.Get("/", userHandler.List)
	userRoutes.Get("/:memberId", userHandler.Get)
	userRoutes.Patch("/:memberId/active", userHandler.SetActive)
	userRoutes.Patch("/:memberId/role", middleware.FounderOnly(), userHandler.UpdateRole)

	// Beneficiary routes (authenticated members; voting admin scope)
	beneficiaryRoutes := router.Group("/beneficiary")
	beneficiaryRoutes.Use(middleware.AuthMiddleware(cfg))
	beneficiaryRoutes.Post("/requests", beneficiaryHandler.CreateRequest)
	beneficiaryRoutes.Get("/requests/mine", beneficiaryHandler.ListMine)
	beneficiaryRoutes.Get("/requests/:id", beneficiaryHandler.Get)
	beneficiaryRoutes.Get("/requests", middleware.AdminOnly(), beneficiaryHandler.List)
	beneficiaryRoutes.Post("/requests/:id/vote", middleware.AdminOnly(), beneficiaryHandler.Vote)
	beneficiaryRoutes.Get("/requests/:id/history", middleware.AdminOnly(), beneficiaryHandler.History)

	// Payment routes
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Use(middleware.AuthMiddleware(cfg))
	paymentRoutes.Get("/mine", paymentHandler.ListMine)
	paymentRoutes.Get("/", middleware.AdminOnly(), paymentHandler.List)
	paymentRoutes.Get("/summary", middleware.AdminOnly(), paymentHandler.Summary)
	paymentRoutes.Post("/", middleware.AdminOnly(), paymentHandler.Record)
	paymentRoutes.Post("/import", middleware.AdminOnly(), paymentHandler.ImportCSV)

	// Announcement routes (reads public, writes admin scope)
	announcementRoutes := router.Group("/announcements")
	announcementRoutes.Get("/", middleware.PublicCache(5*time.Minute), announcementHandler.ListActive)
	announcementRoutes.Use(middleware.AuthMiddleware(cfg))
	announcementRoutes.Use(middleware.AdminOnly())
	announcementRoutes.Get("/all", announcementHandler.ListAll)
	announcementRoutes.Post("/", announcementHandler.Create)
	announcementRoutes.Patch("/:id", announcementHandler.Update)
	announcementRoutes.Delete("/:id", announcementHandler.Delete)

	// Founder-only account mutation routes (strict rate limit, no caching)
	accountRoutes := router.Group("/admin/accounts")
	accountRoutes.Use(middleware.NoCacheHeaders())
	accountRoutes.Use(middleware.AuthMiddleware(cfg))
	accountRoutes.Use(middleware.FounderOnly())
	accountRoutes.Post("/delete", middleware.StrictRateLimiter(), accountAdminHandler.DeleteAccount)
	accountRoutes.Post("/update-email", middleware.StrictRateLimiter(), accountAdminHandler.UpdateEmail)

	// Founder-only counter routes
	counterRoutes := router.Group("/admin/counter")
	counterRoutes.Use(middleware.AuthMiddleware(cfg))
	counterRoutes.Use(middleware.FounderOnly())
	counterRoutes.Get("/", counterHandler.Current)
	counterRoutes.Post("/initialize", counterHandler.Initialize)

	// Founder-only audit log routes
	auditRoutes := router.Group("/admin/audit-logs")
	auditRoutes.Use(middleware.NoCacheHeaders())
	auditRoutes.Use(middleware.AuthMiddleware(cfg))
	auditRoutes.Use(middleware.FounderOnly())
	auditRoutes.Get("/", auditHandler.List)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}
