package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/app"
	"tourbook/internal/config"
	"tourbook/internal/filestore"
	"tourbook/internal/handler"
	"tourbook/internal/logger"
	"tourbook/internal/mail"
	"tourbook/internal/qr"
	internalRedis "tourbook/internal/redis"
	"tourbook/internal/repository/postgres"
	"tourbook/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			logger.Log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	logger.Log.Info("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	logger.Log.Info("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		logger.Log.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Log.Info("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize repositories.
	bookingRepo := postgres.NewBookingRepository(db)
	routeRepo := postgres.NewRouteRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)

	// Initialize collaborators.
	routeCache := internalRedis.NewRouteCache(redisClient)
	mailer := mail.NewMailer(cfg.SMTP)
	files := filestore.NewDiskStore(cfg.App.UploadDir, cfg.App.UploadBaseURL)
	credentials := qr.NewGenerator()

	// Initialize services.
	activityService := service.NewActivityService(activityRepo, nil)
	bookingService := service.NewBookingService(
		bookingRepo, routeRepo, customerRepo, activityService,
		mailer, files, credentials, routeCache,
		cfg.App.PublicBaseURL, nil,
	)
	paymentService := service.NewPaymentService(bookingRepo, routeRepo, activityService, mailer, nil)
	waiverService := service.NewWaiverService(bookingRepo, activityService, mailer, files, cfg.App.PublicBaseURL, nil)
	checkInService := service.NewCheckInService(bookingRepo, activityService, nil)

	// Initialize handlers.
	bookingHandler := handler.NewBookingHandler(bookingService, paymentService, activityService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	waiverHandler := handler.NewWaiverHandler(waiverService)
	checkInHandler := handler.NewCheckInHandler(checkInService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		BookingHandler: bookingHandler,
		PaymentHandler: paymentHandler,
		WaiverHandler:  waiverHandler,
		CheckInHandler: checkInHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		UploadDir:      cfg.App.UploadDir,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
