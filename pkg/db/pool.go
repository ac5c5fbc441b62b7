package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trucklogix/site-api/pkg/logger"
	"github.com/trucklogix/site-api/pkg/retry"
	"go.uber.org/zap"
)

// PoolConfig contains database pool configuration parameters
type PoolConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnectAttempts int
}

// NewPool creates a PostgreSQL connection pool. It does not contact the server.
// TLS follows the sslmode in the URL.
//
// Pool settings:
//   - HealthCheckPeriod: 30s
//   - MaxConnLifetime: 1h
//   - MaxConnIdleTime: 30m
func NewPool(ctx context.Context, poolCfg PoolConfig) (*pgxpool.Pool, error) {
	if poolCfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	config, err := pgxpool.ParseConfig(poolCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	config.HealthCheckPeriod = 30 * time.Second
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return pool, nil
}

// Connect creates the pool and pings it, retrying a bounded number of times.
// Each attempt gets 5s to reach the server.
func Connect(ctx context.Context, poolCfg PoolConfig) (*pgxpool.Pool, error) {
	return retry.DoWithResult(ctx, retry.StartupConfig(poolCfg.ConnectAttempts), "connect database",
		func(ctx context.Context) (*pgxpool.Pool, error) {
			pool, err := NewPool(ctx, poolCfg)
			if err != nil {
				return nil, err
			}

			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := pool.Ping(pingCtx); err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to ping database: %w", err)
			}

			stat := pool.Stat()
			logger.Info("Connected to PostgreSQL",
				zap.Int32("max_conns", stat.MaxConns()),
				zap.Int32("total_conns", stat.TotalConns()))
			return pool, nil
		})
}

// Close gracefully closes the connection pool
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
