package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/trucklogix/site-api/internal/models"
	"github.com/trucklogix/site-api/internal/repository"
	apperrors "github.com/trucklogix/site-api/pkg/errors"
	"github.com/trucklogix/site-api/pkg/mailer"
)

// MockSubmissionRepository is a mock implementation of ContactSubmissionRepositoryInterface
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Begin(ctx context.Context) (repository.SubmissionTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.SubmissionTx), args.Error(1)
}

func (m *MockSubmissionRepository) List(ctx context.Context) ([]*models.ContactSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContactSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSubmissionTx is a mock implementation of SubmissionTx
type MockSubmissionTx struct {
	mock.Mock
}

func (m *MockSubmissionTx) Insert(ctx context.Context, s *models.ContactSubmission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSubmissionTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSender is a mock implementation of mailer.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// memoryStore is a transactional in-memory repository: inserts become
// visible to List only after Commit.
type memoryStore struct {
	mu    sync.Mutex
	rows  []*models.ContactSubmission
	clock time.Time
}

type memoryTx struct {
	store  *memoryStore
	staged []*models.ContactSubmission
}

func newMemoryStore() *memoryStore {
	return &memoryStore{clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *memoryStore) Begin(_ context.Context) (repository.SubmissionTx, error) {
	return &memoryTx{store: s}, nil
}

func (s *memoryStore) List(_ context.Context) ([]*models.ContactSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]*models.ContactSubmission{}, s.rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memoryStore) Ping(_ context.Context) error { return nil }

func (t *memoryTx) Insert(_ context.Context, sub *models.ContactSubmission) error {
	t.store.mu.Lock()
	t.store.clock = t.store.clock.Add(time.Second)
	sub.CreatedAt = t.store.clock
	t.store.mu.Unlock()
	t.staged = append(t.staged, sub)
	return nil
}

func (t *memoryTx) Commit(_ context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.rows = append(t.store.rows, t.staged...)
	t.staged = nil
	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	t.staged = nil
	return nil
}

// buildingSender renders every message with mailer.BuildMsg the way the SMTP
// mailer does and counts the ones that would go out.
type buildingSender struct {
	mu   sync.Mutex
	sent int
}

func (b *buildingSender) Send(_ context.Context, msg mailer.Message) error {
	if _, err := mailer.BuildMsg(msg); err != nil {
		return apperrors.EmailDeliveryError(err)
	}
	b.mu.Lock()
	b.sent++
	b.mu.Unlock()
	return nil
}
