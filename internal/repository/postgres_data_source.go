package repository

import (
	"context"

	"github.com/trucklogix/site-api/internal/database/postgres"
	"github.com/trucklogix/site-api/internal/models"
)

// PostgresSubmissionDataSource implements SubmissionDataSource using PostgreSQL
type PostgresSubmissionDataSource struct {
	client *postgres.Client
}

// NewPostgresSubmissionDataSource creates a new PostgreSQL submission data source
func NewPostgresSubmissionDataSource(client *postgres.Client) *PostgresSubmissionDataSource {
	return &PostgresSubmissionDataSource{client: client}
}

// BeginSubmission opens a transaction for one submission
func (ds *PostgresSubmissionDataSource) BeginSubmission(ctx context.Context) (SubmissionTx, error) {
	tx, err := ds.client.BeginSubmission(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListSubmissions fetches all submissions newest first
func (ds *PostgresSubmissionDataSource) ListSubmissions(ctx context.Context) ([]*models.ContactSubmission, error) {
	return ds.client.ListSubmissions(ctx)
}

// Ping checks database reachability
func (ds *PostgresSubmissionDataSource) Ping(ctx context.Context) error {
	return ds.client.Ping(ctx)
}

// Ensure PostgresSubmissionDataSource implements SubmissionDataSource
var _ SubmissionDataSource = (*PostgresSubmissionDataSource)(nil)

// Ensure postgres.SubmissionTx implements SubmissionTx
var _ SubmissionTx = (*postgres.SubmissionTx)(nil)
