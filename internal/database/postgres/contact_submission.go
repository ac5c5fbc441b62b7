package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/trucklogix/site-api/internal/models"
	"github.com/trucklogix/site-api/pkg/logger"
	"github.com/trucklogix/site-api/pkg/metrics"
	"go.uber.org/zap"
)

const insertSubmissionQuery = `
	INSERT INTO contact_submissions (id, name, email, subject, message, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
`

const listSubmissionsQuery = `
	SELECT id::text, name, email, subject, message, status, created_at
	FROM contact_submissions
	ORDER BY created_at DESC, id DESC
`

// SubmissionTx is an open transaction scoped to one contact submission
type SubmissionTx struct {
	tx pgx.Tx
}

// BeginSubmission opens the transaction a submission is written in
func (c *Client) BeginSubmission(ctx context.Context) (*SubmissionTx, error) {
	start := time.Now()
	operation := "beginSubmission"

	tx, err := c.db.Begin(ctx)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &SubmissionTx{tx: tx}, nil
}

// Insert writes the submission and fills CreatedAt from the database clock
func (t *SubmissionTx) Insert(ctx context.Context, s *models.ContactSubmission) error {
	start := time.Now()
	operation := "insertSubmission"

	rows, err := t.tx.Query(ctx, insertSubmissionQuery,
		s.ID,
		s.Name,
		s.Email,
		s.Subject,
		s.Message,
		string(s.Status),
	)
	if err == nil {
		s.CreatedAt, err = pgx.CollectExactlyOneRow(rows, pgx.RowTo[time.Time])
	}

	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to insert contact submission: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("submission_id", s.ID))
	return nil
}

// Commit makes the submission durable
func (t *SubmissionTx) Commit(ctx context.Context) error {
	start := time.Now()
	err := t.tx.Commit(ctx)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics("commitSubmission", "error", duration)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	recordMetrics("commitSubmission", "success", duration)
	return nil
}

// Rollback discards the submission
func (t *SubmissionTx) Rollback(ctx context.Context) error {
	start := time.Now()
	err := t.tx.Rollback(ctx)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics("rollbackSubmission", "error", duration)
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	recordMetrics("rollbackSubmission", "success", duration)
	return nil
}

// ListSubmissions returns every stored submission, newest first
func (c *Client) ListSubmissions(ctx context.Context) ([]*models.ContactSubmission, error) {
	start := time.Now()
	operation := "listSubmissions"

	rows, err := c.db.Query(ctx, listSubmissionsQuery)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query contact submissions: %w", err)
	}

	submissions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.ContactSubmission, error) {
		var s models.ContactSubmission
		var status string
		if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &status, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = models.SubmissionStatus(status)
		return &s, nil
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to scan contact submissions: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(submissions)))
	return submissions, nil
}
