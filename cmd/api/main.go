package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/grievance-hub/complaint-service/internal/api/http"
	"github.com/grievance-hub/complaint-service/internal/api/http/handlers"
	"github.com/grievance-hub/complaint-service/internal/auth"
	"github.com/grievance-hub/complaint-service/internal/config"
	"github.com/grievance-hub/complaint-service/internal/notify"
	"github.com/grievance-hub/complaint-service/internal/observability"
	"github.com/grievance-hub/complaint-service/internal/persistence"
	"github.com/grievance-hub/complaint-service/internal/repository"
	"github.com/grievance-hub/complaint-service/internal/service"
	"github.com/grievance-hub/complaint-service/internal/worker"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	unreadCache := notify.NewUnreadCache(redis.Client)
	retry := notify.RetryPolicy{
		MaxAttempts:    cfg.Dispatch.MaxAttempts,
		InitialBackoff: cfg.Dispatch.InitialBackoff(),
		AttemptTimeout: cfg.Dispatch.AttemptTimeout(),
	}

	var smsSender notify.SMSSender
	if cfg.SMS.Enabled() {
		smsSender = notify.NewTwilioSender(cfg.SMS)
	} else {
		logger.Warn("sms transport not configured, sms deliveries will be no-ops")
	}

	var emailSender notify.EmailSender
	if cfg.Email.Enabled() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Email.Region))
		if err != nil {
			logger.Fatal("failed to load aws config", zap.Error(err))
		}
		emailSender = notify.NewSESSender(awsCfg, cfg.Email.FromEmail)
	} else {
		logger.Warn("email transport not configured, email deliveries will be no-ops")
	}

	dispatcher := notify.NewDispatcher(notify.DispatcherDependencies{
		UserRepo: userRepo,
		InApp:    notify.NewInAppChannel(notificationRepo, unreadCache, logger),
		SMS:      notify.NewSMSChannel(smsSender, cfg.SMS.DefaultCountryCode, retry, logger),
		Email:    notify.NewEmailChannel(emailSender, retry, logger),
		Metrics:  metrics,
		Logger:   logger,
	})
	dispatchQueue := worker.StartDispatchQueue(dispatcher, logger)

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		UserRepo:      userRepo,
		Sink:          dispatchQueue,
		Logger:        logger,
	})
	authService := service.NewAuthService(cfg.Auth, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, unreadCache, logger)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, complaintService, userRepo),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("listening", zap.String("addr", cfg.App.Addr()))

	waitForShutdown(logger)

	_ = app.Shutdown()
	dispatchQueue.Close()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
