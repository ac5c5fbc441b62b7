package services

import (
	"context"

	"github.com/trucklogix/site-api/internal/models"
)

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	SubmitContact(ctx context.Context, req *models.SubmitContactRequest) (*models.SubmitContactResponse, error)
	ListSubmissions(ctx context.Context) ([]*models.ContactSubmission, error)
}

// Ensure service implementation satisfies its interface
var _ ContactServiceInterface = (*ContactService)(nil)
