package repository

import (
	"context"

	"github.com/trucklogix/site-api/internal/models"
)

// SubmissionTx is one pending contact submission write.
// Nothing is visible to readers until Commit succeeds.
type SubmissionTx interface {
	// Insert stages the submission and fills its CreatedAt
	Insert(ctx context.Context, s *models.ContactSubmission) error

	// Commit makes the staged submission durable
	Commit(ctx context.Context) error

	// Rollback discards the staged submission
	Rollback(ctx context.Context) error
}

// SubmissionDataSource is the datastore behind ContactSubmissionRepository
type SubmissionDataSource interface {
	BeginSubmission(ctx context.Context) (SubmissionTx, error)
	ListSubmissions(ctx context.Context) ([]*models.ContactSubmission, error)
	Ping(ctx context.Context) error
}
