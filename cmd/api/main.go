package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/carventory/internal/api/http"
	"github.com/spec-kit/carventory/internal/api/http/handlers"
	"github.com/spec-kit/carventory/internal/auth"
	"github.com/spec-kit/carventory/internal/config"
	"github.com/spec-kit/carventory/internal/events"
	"github.com/spec-kit/carventory/internal/mailer"
	"github.com/spec-kit/carventory/internal/observability"
	"github.com/spec-kit/carventory/internal/persistence"
	"github.com/spec-kit/carventory/internal/repository"
	"github.com/spec-kit/carventory/internal/service"
	"github.com/spec-kit/carventory/internal/uploads"
	"github.com/spec-kit/carventory/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminUserRepository(pool)
	carRepo := repository.NewCarRepository(pool)
	offerRepo := repository.NewOfferRepository(pool)
	tokenStore := repository.NewVerificationTokenStore(redis.Client, cfg.Auth.VerificationTokenTTL())

	uploadStore, err := uploads.NewStore(cfg.Uploads, logger)
	if err != nil {
		logger.Fatal("failed to init upload store", zap.Error(err))
	}

	mail := mailer.New(cfg.Mail, logger)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo, adminRepo)
	adminService := service.NewAdminService(*cfg, service.AdminDependencies{
		AdminRepo:  adminRepo,
		TokenStore: tokenStore,
		Mailer:     mail,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	listingService := service.NewListingService(carRepo, uploadStore, cfg.Uploads.MaxListings)
	offerService := service.NewOfferService(offerRepo, carRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, mail, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, adminRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Uploads.MaxFileBytes) * 5,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(adminService),
		Cars:           handlers.NewCarsHandler(listingService, uploadStore),
		Offers:         handlers.NewOffersHandler(offerService),
		TestDrive:      handlers.NewTestDriveHandler(mail, logger),
		AuthMiddleware: authMiddleware,
		UploadsDir:     cfg.Uploads.Dir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
