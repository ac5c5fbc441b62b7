package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trucklogix/site-api/config"
	"github.com/trucklogix/site-api/internal/models"
	"github.com/trucklogix/site-api/internal/notification"
	"github.com/trucklogix/site-api/internal/repository"
	apperrors "github.com/trucklogix/site-api/pkg/errors"
	"github.com/trucklogix/site-api/pkg/logger"
	"github.com/trucklogix/site-api/pkg/mailer"
	"github.com/trucklogix/site-api/pkg/metrics"
	"github.com/trucklogix/site-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SubmitSuccessMessage is returned to the site after a stored and delivered submission
const SubmitSuccessMessage = "Your message has been sent successfully!"

const rollbackTimeout = 5 * time.Second

// ContactService stores contact form submissions and notifies the site owner
type ContactService struct {
	repo       repository.ContactSubmissionRepositoryInterface
	sender     mailer.Sender
	notifyOpts notification.Options
	newID      func() (uuid.UUID, error)
}

// NewContactService creates a new contact service instance
func NewContactService(
	repo repository.ContactSubmissionRepositoryInterface,
	sender mailer.Sender,
	cfg *config.Config,
) *ContactService {
	return &ContactService{
		repo:   repo,
		sender: sender,
		notifyOpts: notification.Options{
			From:        cfg.Email.From,
			To:          cfg.Email.To,
			CompanyName: cfg.Email.CompanyName,
		},
		newID: uuid.NewV7,
	}
}

// SubmitContact writes the submission and sends the notification inside one
// transaction. The row is committed only after the email went out; any
// failure before that rolls it back.
func (s *ContactService) SubmitContact(ctx context.Context, req *models.SubmitContactRequest) (*models.SubmitContactResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.SubmitContact")
	defer span.End()

	req.Normalize()

	id, err := s.newID()
	if err != nil {
		metrics.ContactFormSubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to generate submission ID", zap.Error(err))
		return nil, apperrors.InternalError("failed to generate submission ID")
	}

	submission := &models.ContactSubmission{
		ID:      id.String(),
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.SubmissionStatusNew,
	}
	span.SetAttributes(attribute.String("submission.id", submission.ID))

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, failSubmission(span, "storage_error", apperrors.StorageError("begin", err))
	}

	ended := false
	defer func() {
		if ended {
			return
		}
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		if rbErr := tx.Rollback(rbCtx); rbErr != nil {
			logger.Error("Failed to roll back contact submission",
				zap.String("submission_id", submission.ID),
				zap.Error(rbErr))
		}
	}()

	if err := tx.Insert(ctx, submission); err != nil {
		return nil, failSubmission(span, "storage_error", apperrors.StorageError("insert", err))
	}

	msg, err := notification.BuildContactNotification(submission, s.notifyOpts)
	if err != nil {
		return nil, failSubmission(span, "error", err)
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		status := "email_error"
		if apperrors.Is(err, apperrors.ErrEmailAuth) {
			status = "email_auth_error"
		}
		return nil, failSubmission(span, status, err)
	}

	// The transaction is finished whether or not Commit succeeds
	ended = true
	if err := tx.Commit(ctx); err != nil {
		logger.Error("Contact submission commit failed after notification was already delivered",
			zap.String("submission_id", submission.ID),
			zap.String("email", submission.Email),
			zap.Error(err))
		return nil, failSubmission(span, "commit_failed", apperrors.StorageError("commit", err))
	}

	metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
	logger.Info("Contact submission stored",
		zap.String("submission_id", submission.ID),
		zap.Bool("has_subject", submission.Subject != ""))

	return &models.SubmitContactResponse{
		Success: true,
		Message: SubmitSuccessMessage,
	}, nil
}

// ListSubmissions returns all stored submissions, newest first
func (s *ContactService) ListSubmissions(ctx context.Context) ([]*models.ContactSubmission, error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.ListSubmissions")
	defer span.End()

	submissions, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		logger.Error("Failed to list contact submissions", zap.Error(err))
		return nil, apperrors.StorageError("list", err)
	}
	return submissions, nil
}

func failSubmission(span trace.Span, status string, err error) error {
	metrics.ContactFormSubmissions.WithLabelValues(status).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	logger.Error("Contact submission failed", zap.String("outcome", status), zap.Error(err))
	return err
}
