package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/trucklogix/site-api/pkg/metrics"
)

// DB is the part of *pgxpool.Pool the client uses.
// pgxmock's pool satisfies it in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// Client wraps a pgx connection pool with observability
type Client struct {
	db DB
}

// NewClient creates a client over an already connected pool
func NewClient(db DB) *Client {
	return &Client{db: db}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues("postgres_"+operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues("postgres_"+operation, status).Inc()
}
