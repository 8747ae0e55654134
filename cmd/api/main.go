package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/spc-registrar/records-api/internal/config"
	"github.com/spc-registrar/records-api/internal/database"
	"github.com/spc-registrar/records-api/internal/handler"
	"github.com/spc-registrar/records-api/internal/middleware"
	"github.com/spc-registrar/records-api/internal/repository"
	"github.com/spc-registrar/records-api/internal/router"
	"github.com/spc-registrar/records-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectSQLite(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	attachmentStore, err := service.NewDiskAttachmentStore(cfg.AttachmentsRoot, logger)
	if err != nil {
		log.Fatalf("failed to prepare attachments folder: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	hasher := service.NewBcryptHasher()

	operatorRepo := repository.NewOperatorRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	authService := service.NewAuthService(operatorRepo, hasher, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	recordService := service.NewRecordService(recordRepo, attachmentStore, validate, logger)
	reportService := service.NewReportService(recordRepo, logger)
	backupService := service.NewBackupService(cfg.DatabasePath, logger)

	if cfg.SeedDefaults {
		seedService := service.NewSeedService(operatorRepo, recordRepo, hasher, logger)
		if err := seedService.EnsureDefaults(context.Background()); err != nil {
			log.Fatalf("failed to seed default data: %v", err)
		}
	}

	authHandler := handler.NewAuthHandler(authService, logger)
	recordHandler := handler.NewRecordHandler(recordService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	backupHandler := handler.NewBackupHandler(backupService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:   authHandler,
		RecordHandler: recordHandler,
		ReportHandler: reportHandler,
		BackupHandler: backupHandler,
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
