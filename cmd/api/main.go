package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trucklogix/site-api/config"
	"github.com/trucklogix/site-api/internal/database/postgres"
	"github.com/trucklogix/site-api/internal/handlers"
	"github.com/trucklogix/site-api/internal/middleware"
	"github.com/trucklogix/site-api/internal/repository"
	"github.com/trucklogix/site-api/internal/services"
	"github.com/trucklogix/site-api/pkg/db"
	"github.com/trucklogix/site-api/pkg/logger"
	"github.com/trucklogix/site-api/pkg/mailer"
	"github.com/trucklogix/site-api/pkg/metrics"
	"github.com/trucklogix/site-api/pkg/profiling"
	"github.com/trucklogix/site-api/pkg/tracing"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 5 * time.Second
	mailVerifyTimeout = 15 * time.Second
	contactRatePerSec = 5
	contactRateBurst  = 10
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting site API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("allowed_origin", cfg.AllowedOrigin()),
	)

	for _, problem := range cfg.Problems() {
		logger.Error("Configuration problem", zap.String("problem", problem))
	}

	// Only the datastore is required to serve; observability failures are logged
	tracerShutdown, err := tracing.Init(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		tracerShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to start profiler, continuing without profiling", zap.Error(err))
		stopProfiler = func() {}
	}
	defer stopProfiler()

	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}

	// Startup is the only place the database connection is retried
	pool, err := db.Connect(context.Background(), db.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	// Migrations are applied separately by cmd/migrate

	submissionRepo := repository.NewContactSubmissionRepository(
		repository.NewPostgresSubmissionDataSource(postgres.NewClient(pool)),
		cfg.Cache.ContactsTTLSeconds,
	)

	mail := mailer.New(cfg.Email)
	go verifyMailer(mail)

	contactService := services.NewContactService(submissionRepo, mail, cfg)

	contactLimiter := middleware.NewRateLimiter(contactRatePerSec, contactRateBurst)
	defer contactLimiter.Stop()

	gin.SetMode(cfg.Server.GinMode)
	router := newRouter(cfg, routerDeps{
		contactHandler: handlers.NewContactHandler(contactService),
		healthHandler:  handlers.NewHealthHandler(submissionRepo),
		contactLimiter: contactLimiter,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // covers a slow SMTP send
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// verifyMailer checks the SMTP credentials once. A failure is only logged;
// submissions will fail until the configuration is fixed.
func verifyMailer(mail *mailer.Mailer) {
	ctx, cancel := context.WithTimeout(context.Background(), mailVerifyTimeout)
	defer cancel()

	ep := mail.Endpoint()
	if err := mail.Verify(ctx); err != nil {
		logger.Error("Mail server configuration error",
			zap.String("host", ep.Host),
			zap.Int("port", ep.Port),
			zap.Error(err))
		return
	}
	logger.Info("Mail server is ready to send emails", zap.String("host", ep.Host), zap.Int("port", ep.Port))
}
