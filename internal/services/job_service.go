package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"github.com/ErikLozanov/job-application-tracker/internal/repository"
	"github.com/ErikLozanov/job-application-tracker/internal/storage"
	"github.com/ErikLozanov/job-application-tracker/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrCompanyRequired    = errors.New("company is required")
	ErrJobTitleRequired   = errors.New("job title is required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidDate        = utils.ErrInvalidDate
	ErrResumeTooLarge     = errors.New("resume exceeds maximum size")
	ErrResumeUploadFailed = errors.New("failed to upload resume")
)

// JobService handles job business logic. Every operation is scoped to the
// owner passed in.
type JobService struct {
	jobRepo repository.JobRepository
	blobs   storage.BlobStore
	now     func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(jobRepo repository.JobRepository, blobs storage.BlobStore) *JobService {
	return &JobService{
		jobRepo: jobRepo,
		blobs:   blobs,
		now:     time.Now,
	}
}

// ListJobsInput represents filters for listing jobs
type ListJobsInput struct {
	UserID uint64
	Search string
	Status string
	Limit  int
}

// ResumeUpload is a file received with a create request
type ResumeUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// CreateJobInput represents input for creating a job
type CreateJobInput struct {
	UserID         uint64
	Company        string
	JobTitle       string
	Status         string
	Priority       string
	JobURL         string
	AppliedDate    string
	InterviewDate  string
	Notes          string
	JobDescription string
	Resume         *ResumeUpload
}

// UpdateJobInput represents a partial update. Nil fields are left untouched.
// A date field pointing at an empty string clears the date.
type UpdateJobInput struct {
	Company        *string
	JobTitle       *string
	Status         *string
	Priority       *string
	JobURL         *string
	AppliedDate    *string
	InterviewDate  *string
	Notes          *string
	JobDescription *string
}

// ListJobs returns the owner's jobs, most recently updated first
func (s *JobService) ListJobs(ctx context.Context, input ListJobsInput) ([]models.Job, error) {
	filter := repository.JobFilter{
		UserID: input.UserID,
		Search: strings.TrimSpace(input.Search),
		Limit:  input.Limit,
	}

	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if status != "" && status != constants.StatusFilterAll {
		parsed := models.JobStatus(status)
		if !parsed.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &parsed
	}

	jobs, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// GetJob returns a job owned by userID
func (s *JobService) GetJob(ctx context.Context, userID, jobID uint64) (*models.Job, error) {
	job, err := s.jobRepo.FindOwned(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return job, nil
}

// CreateJob validates the input, uploads the resume if one was sent and
// inserts the job
func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	job := &models.Job{
		UserID:         input.UserID,
		Company:        strings.TrimSpace(input.Company),
		JobTitle:       strings.TrimSpace(input.JobTitle),
		Status:         models.JobStatusApplied,
		Priority:       models.JobPriorityMedium,
		JobURL:         strings.TrimSpace(input.JobURL),
		Notes:          input.Notes,
		JobDescription: input.JobDescription,
	}

	if job.Company == "" {
		return nil, ErrCompanyRequired
	}
	if job.JobTitle == "" {
		return nil, ErrJobTitleRequired
	}
	if err := applyStatus(job, input.Status); err != nil {
		return nil, err
	}
	if err := applyPriority(job, input.Priority); err != nil {
		return nil, err
	}

	var err error
	if job.AppliedDate, err = utils.ParseOptionalDate(input.AppliedDate); err != nil {
		return nil, err
	}
	if job.InterviewDate, err = utils.ParseOptionalDate(input.InterviewDate); err != nil {
		return nil, err
	}

	if input.Resume != nil {
		if input.Resume.Size > constants.MaxResumeSize {
			return nil, ErrResumeTooLarge
		}

		key := utils.BuildResumeKey(input.UserID, s.now(), input.Resume.Filename)
		url, err := s.blobs.Put(ctx, key, input.Resume.Content, input.Resume.Size, input.Resume.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResumeUploadFailed, err)
		}
		job.ResumeKey = key
		job.ResumeURL = url
		job.ResumeName = input.Resume.Filename
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		if job.HasResume() {
			s.deleteResume(ctx, job.ResumeKey)
		}
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

// UpdateJob merges the supplied fields into an owned job
func (s *JobService) UpdateJob(ctx context.Context, userID, jobID uint64, input UpdateJobInput) (*models.Job, error) {
	job, err := s.GetJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	if input.Company != nil {
		company := strings.TrimSpace(*input.Company)
		if company == "" {
			return nil, ErrCompanyRequired
		}
		job.Company = company
	}
	if input.JobTitle != nil {
		title := strings.TrimSpace(*input.JobTitle)
		if title == "" {
			return nil, ErrJobTitleRequired
		}
		job.JobTitle = title
	}
	if input.Status != nil {
		if strings.TrimSpace(*input.Status) == "" {
			return nil, ErrInvalidStatus
		}
		if err := applyStatus(job, *input.Status); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		if strings.TrimSpace(*input.Priority) == "" {
			return nil, ErrInvalidPriority
		}
		if err := applyPriority(job, *input.Priority); err != nil {
			return nil, err
		}
	}
	if input.JobURL != nil {
		job.JobURL = strings.TrimSpace(*input.JobURL)
	}
	if input.AppliedDate != nil {
		if job.AppliedDate, err = utils.ParseOptionalDate(*input.AppliedDate); err != nil {
			return nil, err
		}
	}
	if input.InterviewDate != nil {
		if job.InterviewDate, err = utils.ParseOptionalDate(*input.InterviewDate); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		job.Notes = *input.Notes
	}
	if input.JobDescription != nil {
		job.JobDescription = *input.JobDescription
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return job, nil
}

// DeleteJob removes an owned job and its resume file
func (s *JobService) DeleteJob(ctx context.Context, userID, jobID uint64) error {
	job, err := s.GetJob(ctx, userID, jobID)
	if err != nil {
		return err
	}

	if err := s.jobRepo.DeleteOwned(ctx, userID, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if job.HasResume() {
		s.deleteResume(ctx, job.ResumeKey)
	}
	return nil
}

// GetStats counts the owner's jobs per status. Statuses without jobs are
// omitted.
func (s *JobService) GetStats(ctx context.Context, userID uint64) (map[models.JobStatus]int64, error) {
	counts, err := s.jobRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	return counts, nil
}

func (s *JobService) deleteResume(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Printf("Failed to delete resume %s: %v", key, err)
	}
}

func applyStatus(job *models.Job, raw string) error {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}
	status := models.JobStatus(raw)
	if !status.Valid() {
		return ErrInvalidStatus
	}
	job.Status = status
	return nil
}

func applyPriority(job *models.Job, raw string) error {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}
	priority := models.JobPriority(raw)
	if !priority.Valid() {
		return ErrInvalidPriority
	}
	job.Priority = priority
	return nil
}
