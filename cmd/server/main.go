package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ncic-pledge/internal/adapters/http/handlers"
	"ncic-pledge/internal/adapters/http/middleware"
	"ncic-pledge/internal/adapters/http/routes"
	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/adapters/storage"
	"ncic-pledge/internal/config"
	"ncic-pledge/internal/core/services"
	"ncic-pledge/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "ncic-pledge/docs" // Swagger docs
)

// @title NCIC Pledge API
// @version 1.0
// @description Pledge and donation tracking API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@ncic.org

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.AppMode, cfg.LogLevel)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	// money goes out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to database
	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase(db) //nolint:errcheck

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("failed to auto migrate", zap.Error(err))
	}
	log.Info("database migration completed")

	if err := config.NewSeeder(db, cfg.Bootstrap, log).Run(); err != nil {
		log.Error("seeding failed", zap.Error(err))
	}

	redisClient := config.ConnectRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var store handlers.PaperFormStore
	if cfg.StorageEnabled() {
		s3Store, err := storage.NewS3Storage(context.Background(), cfg.Storage)
		if err != nil {
			log.Warn("S3 storage unavailable, paper form uploads disabled", zap.Error(err))
		} else {
			store = s3Store
		}
	}

	// Assignment repair, overdue flags and token cleanup
	if cfg.Sweep.Enabled {
		sweep := services.NewSweepService(
			repositories.NewStaffRepository(db),
			repositories.NewPledgeRepository(db),
			repositories.NewRefreshTokenRepository(db),
			repositories.NewTxManager(db),
			cfg.Location(),
			log,
		)
		if err := sweep.Start(cfg.Sweep.Spec); err != nil {
			log.Fatal("invalid SWEEP_CRON", zap.String("spec", cfg.Sweep.Spec), zap.Error(err))
		}
		defer sweep.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "NCIC Pledge API v1.0",
		ErrorHandler: middleware.CustomErrorHandler(log),
		BodyLimit:    (cfg.Storage.MaxUploadMB + 1) << 20,
	})

	middleware.Setup(app, cfg, log)

	routes.Setup(app, cfg, routes.Dependencies{
		DB:    db,
		Redis: redisClient,
		Store: store,
		Log:   log,
	})

	go gracefulShutdown(app, log)

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped with error", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped gracefully")
}
