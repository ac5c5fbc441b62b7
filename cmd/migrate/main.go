package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/trucklogix/site-api/config"
	"github.com/trucklogix/site-api/pkg/db"
	"github.com/trucklogix/site-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName + "-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)),
		zap.String("source", *source))

	version, err := db.RunMigrations(cfg.Database.URL, *source)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Uint("version", version), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("Database migrations completed", zap.Uint("version", version))
}

// maskDatabaseURL hides the password so the URL can be logged
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
