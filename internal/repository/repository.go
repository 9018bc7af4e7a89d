package repository

import (
	"context"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/models"
)

// JobRepository defines the interface for job data access.
// Every method that reads or writes a single job takes the owner's ID and
// folds it into the query predicate.
type JobRepository interface {
	// Create inserts a new job
	Create(ctx context.Context, job *models.Job) error

	// FindOwned finds a job by ID that belongs to userID
	FindOwned(ctx context.Context, userID, id uint64) (*models.Job, error)

	// List retrieves the owner's jobs, most recently updated first
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)

	// Update saves every column of an existing job
	Update(ctx context.Context, job *models.Job) error

	// DeleteOwned deletes a job belonging to userID
	DeleteOwned(ctx context.Context, userID, id uint64) error

	// CountByStatus groups the owner's jobs by status
	CountByStatus(ctx context.Context, userID uint64) (map[models.JobStatus]int64, error)
}

// JobFilter holds filtering options for listing jobs
type JobFilter struct {
	UserID uint64
	Search string
	Status *models.JobStatus
	Limit  int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update saves an existing user
	Update(ctx context.Context, user *models.User) error

	// DeleteWithJobs deletes the user's jobs and then the user in one
	// transaction, returning the storage keys of resumes that were attached.
	DeleteWithJobs(ctx context.Context, id uint64) ([]string, error)
}

// ResetTokenStore records password reset tokens that were already used.
type ResetTokenStore interface {
	// Consume marks tokenID as used for ttl. It returns false when the token
	// had been consumed before.
	Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)

	// Release forgets a consumed token so it can be used again.
	Release(ctx context.Context, tokenID string) error
}
