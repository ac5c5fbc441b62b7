package repository

import (
	"context"

	"github.com/trucklogix/site-api/internal/cache"
	"github.com/trucklogix/site-api/internal/models"
)

// ContactSubmissionRepositoryInterface defines contact submission data access
type ContactSubmissionRepositoryInterface interface {
	Begin(ctx context.Context) (SubmissionTx, error)
	List(ctx context.Context) ([]*models.ContactSubmission, error)
	Ping(ctx context.Context) error
}

// ContactSubmissionRepository handles contact submission data access.
// Reads go through the list cache; a successful commit invalidates it.
type ContactSubmissionRepository struct {
	source SubmissionDataSource
	cache  *cache.SubmissionsCache
}

// NewContactSubmissionRepository creates a new contact submission repository
func NewContactSubmissionRepository(source SubmissionDataSource, cacheTTLSeconds int) *ContactSubmissionRepository {
	return &ContactSubmissionRepository{
		source: source,
		cache:  cache.NewSubmissionsCache(source.ListSubmissions, cacheTTLSeconds),
	}
}

// Begin opens a submission transaction
func (r *ContactSubmissionRepository) Begin(ctx context.Context) (SubmissionTx, error) {
	tx, err := r.source.BeginSubmission(ctx)
	if err != nil {
		return nil, err
	}
	return &invalidatingTx{SubmissionTx: tx, cache: r.cache}, nil
}

// List returns all submissions newest first
func (r *ContactSubmissionRepository) List(ctx context.Context) ([]*models.ContactSubmission, error) {
	return r.cache.Get(ctx)
}

// Ping checks the underlying datastore
func (r *ContactSubmissionRepository) Ping(ctx context.Context) error {
	return r.source.Ping(ctx)
}

type invalidatingTx struct {
	SubmissionTx
	cache *cache.SubmissionsCache
}

func (t *invalidatingTx) Commit(ctx context.Context) error {
	if err := t.SubmissionTx.Commit(ctx); err != nil {
		return err
	}
	t.cache.Invalidate()
	return nil
}

var _ ContactSubmissionRepositoryInterface = (*ContactSubmissionRepository)(nil)
