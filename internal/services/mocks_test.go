package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"github.com/ErikLozanov/job-application-tracker/internal/repository"
	"github.com/ErikLozanov/job-application-tracker/internal/storage"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "this-is-a-test-secret-with-32-bytes!"
	testSessionExpiry = time.Hour
	testResetExpiry   = 15 * time.Minute
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	createFunc         func(ctx context.Context, user *models.User) error
	findByIDFunc       func(ctx context.Context, id uint64) (*models.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	updateFunc         func(ctx context.Context, user *models.User) error
	deleteWithJobsFunc func(ctx context.Context, id uint64) ([]string, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) DeleteWithJobs(ctx context.Context, id uint64) ([]string, error) {
	if m.deleteWithJobsFunc != nil {
		return m.deleteWithJobsFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Mock JobRepository
// =============================================================================

type mockJobRepository struct {
	createFunc        func(ctx context.Context, job *models.Job) error
	findOwnedFunc     func(ctx context.Context, userID, id uint64) (*models.Job, error)
	listFunc          func(ctx context.Context, filter repository.JobFilter) ([]models.Job, error)
	updateFunc        func(ctx context.Context, job *models.Job) error
	deleteOwnedFunc   func(ctx context.Context, userID, id uint64) error
	countByStatusFunc func(ctx context.Context, userID uint64) (map[models.JobStatus]int64, error)
}

func (m *mockJobRepository) Create(ctx context.Context, job *models.Job) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, job)
	}
	return errors.New("not implemented")
}

func (m *mockJobRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.Job, error) {
	if m.findOwnedFunc != nil {
		return m.findOwnedFunc(ctx, userID, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockJobRepository) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockJobRepository) Update(ctx context.Context, job *models.Job) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, job)
	}
	return errors.New("not implemented")
}

func (m *mockJobRepository) DeleteOwned(ctx context.Context, userID, id uint64) error {
	if m.deleteOwnedFunc != nil {
		return m.deleteOwnedFunc(ctx, userID, id)
	}
	return errors.New("not implemented")
}

func (m *mockJobRepository) CountByStatus(ctx context.Context, userID uint64) (map[models.JobStatus]int64, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Fakes
// =============================================================================

type sentMail struct {
	to   string
	link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, link: resetLink})
	return m.err
}

type fakeGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type fakeTextSource struct {
	texts map[string]string
}

func (f *fakeTextSource) Extract(ctx context.Context, key string) (string, bool) {
	text, ok := f.texts[key]
	return text, ok
}

// failingBlobStore fails every operation.
type failingBlobStore struct{}

func (failingBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("bucket unavailable")
}

func (failingBlobStore) Delete(ctx context.Context, key string) error {
	return errors.New("bucket unavailable")
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret, testSessionExpiry, testResetExpiry)
	require.NoError(t, err)
	return tokens
}

func newTestLocalStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:5000/uploads")
	require.NoError(t, err)
	return store
}
