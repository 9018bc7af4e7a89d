package repository

import (
	"context"

	"github.com/ErikLozanov/job-application-tracker/internal/database"
	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"gorm.io/gorm"
)

// GormJobRepository is a GORM implementation of JobRepository
type GormJobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &GormJobRepository{db: db}
}

// Create inserts a new job
func (r *GormJobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindOwned finds a job by ID that belongs to userID. A job owned by
// someone else is reported as gorm.ErrRecordNotFound.
func (r *GormJobRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		Where("id = ?", id).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// List retrieves jobs with filtering
func (r *GormJobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	jobs := []models.Job{}

	query := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Scopes(
			database.OwnedBy(filter.UserID),
			database.SearchCompanyOrTitle(filter.Search),
			database.Limit(filter.Limit),
		)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Order("updated_at DESC").Order("id DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}

	return jobs, nil
}

// Update writes every column of an existing job. A job that was deleted or
// belongs to another user is reported as gorm.ErrRecordNotFound.
func (r *GormJobRepository) Update(ctx context.Context, job *models.Job) error {
	result := r.db.WithContext(ctx).
		Model(job).
		Scopes(database.OwnedBy(job.UserID)).
		Select("*").
		Omit("id", "user_id", "created_at", "User").
		Updates(job)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOwned deletes a job belonging to userID
func (r *GormJobRepository) DeleteOwned(ctx context.Context, userID, id uint64) error {
	result := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		Where("id = ?", id).
		Delete(&models.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type statusCount struct {
	Status models.JobStatus
	Count  int64
}

// CountByStatus groups the owner's jobs by status. Statuses without jobs are
// not present in the result.
func (r *GormJobRepository) CountByStatus(ctx context.Context, userID uint64) (map[models.JobStatus]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Select("status, COUNT(*) AS count").
		Scopes(database.OwnedBy(userID)).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.JobStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
