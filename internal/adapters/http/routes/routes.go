package routes

import (
	"ncic-pledge/internal/adapters/cache"
	"ncic-pledge/internal/adapters/http/handlers"
	"ncic-pledge/internal/adapters/http/middleware"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/config"
	"ncic-pledge/internal/core/services"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the connections shared by every handler
type Dependencies struct {
	DB     *gorm.DB
	Redis  *redis.Client // nil disables the report cache
	Store  handlers.PaperFormStore
	Mailer services.Mailer
	Log    *zap.Logger
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, deps Dependencies) {
	loc := cfg.Location()
	log := deps.Log

	// Initialize repositories
	staffRepo := repositories.NewStaffRepository(deps.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(deps.DB)
	pledgeRepo := repositories.NewPledgeRepository(deps.DB)
	txm := repositories.NewTxManager(deps.DB)

	reportCache := cache.NewReportCache(deps.Redis, cfg.Redis.ReportTTL)

	mailer := deps.Mailer
	if mailer == nil {
		mailer = services.NewMailService(cfg.Mail, log)
	}

	// Initialize services
	authService := services.NewAuthService(staffRepo, refreshTokenRepo, cfg, log)
	staffService := services.NewStaffService(staffRepo, mailer, log)
	assignmentService := services.NewAssignmentService(staffRepo, pledgeRepo, txm, log)
	pledgeService := services.NewPledgeService(pledgeRepo, assignmentService, txm, reportCache, log)
	reportService := services.NewReportService(pledgeRepo, staffRepo, reportCache, loc, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg, log)
	staffHandler := handlers.NewStaffHandler(staffService, log)
	pledgeHandler := handlers.NewPledgeHandler(pledgeService, loc, log)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, log)
	reportHandler := handlers.NewReportHandler(reportService, log)
	uploadHandler := handlers.NewUploadHandler(deps.Store, log)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	setupAuthRoutes(app.Group("/auth"), authHandler, cfg)

	admin := app.Group("/admin", middleware.AuthMiddleware(cfg), middleware.NoCacheHeaders())
	setupStaffRoutes(admin, staffHandler)
	setupPledgeRoutes(admin, pledgeHandler, uploadHandler)
	setupAssignmentRoutes(admin, assignmentHandler)
	setupReportRoutes(admin.Group("/reports"), reportHandler)
}

// setupAuthRoutes configures auth routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, cfg *config.Config) {
	router.Post("/admin-login", middleware.AuthRateLimiter(), h.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), h.RefreshToken)
	router.Post("/logout", h.Logout)

	// Protected
	router.Get("/me", middleware.AuthMiddleware(cfg), h.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), h.LogoutAll)
	router.Put("/change-password/:id", middleware.StrictRateLimiter(), middleware.AuthMiddleware(cfg), h.ChangePassword)
}

// setupStaffRoutes configures admin and follow-up account routes
func setupStaffRoutes(router fiber.Router, h *handlers.StaffHandler) {
	router.Post("/addAdmin", middleware.SuperAdminOnly(), h.AddAdmin)
	router.Get("/getAllAdmins", middleware.SuperAdminOnly(), h.ListAdmins)

	router.Post("/addFollowUp", middleware.AdminOrAbove(), h.AddFollowUp)
	router.Get("/getAllFollowUps", middleware.AdminOrAbove(), h.ListFollowUps)
	router.Put("/updateFollowUpStatus/:id", middleware.AdminOrAbove(), h.UpdateFollowUpStatus)
}

// setupPledgeRoutes configures pledge routes
func setupPledgeRoutes(router fiber.Router, h *handlers.PledgeHandler, upload *handlers.UploadHandler) {
	router.Post("/addPledge", middleware.AdminOrAbove(), h.AddPledge)
	router.Post("/uploadPaperForm", middleware.AdminOrAbove(), upload.UploadPaperForm)
	router.Get("/getAllPledges", middleware.AdminOrAbove(), h.ListPledges)
	router.Put("/archivePledge/:id", middleware.AdminOrAbove(), h.ArchivePledge)
	router.Put("/unarchivePledge/:id", middleware.AdminOrAbove(), h.UnarchivePledge)

	// Follow-ups are limited to their own pledges by the service
	router.Put("/updatePledge/:id", middleware.AnyStaff(), h.UpdatePledge)
	router.Get("/getPledge/:id", middleware.AnyStaff(), h.GetPledge)

	router.Get("/myPledges", middleware.FollowUpOnly(), h.MyPledges)
}

// setupAssignmentRoutes configures assignment routes
func setupAssignmentRoutes(router fiber.Router, h *handlers.AssignmentHandler) {
	router.Post("/assignPledgeToFollowUp", middleware.AdminOrAbove(), h.AssignPledge)
	router.Post("/assignMultiplePledgesToFollowUp", middleware.AdminOrAbove(), h.AssignMultiplePledges)
	router.Post("/unassignPledge", middleware.AdminOrAbove(), h.UnassignPledge)
}

// setupReportRoutes configures report routes
func setupReportRoutes(router fiber.Router, h *handlers.ReportHandler) {
	router.Get("/totalCollectionStats", middleware.AdminOrAbove(), h.TotalCollectionStats)
	router.Get("/monthlyCollectionReport/:year/:month", middleware.AdminOrAbove(), h.MonthlyCollectionReport)
	router.Get("/exportPledges", middleware.AdminOrAbove(), h.ExportPledges)
	router.Get("/followUpPerformance/:id", middleware.AnyStaff(), h.FollowUpPerformance)
}
