package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/models"
)

// JobDTO represents a job in API responses
type JobDTO struct {
	ID             uint64             `json:"id"`
	UserID         uint64             `json:"userId"`
	Company        string             `json:"company"`
	JobTitle       string             `json:"jobTitle"`
	Status         models.JobStatus   `json:"status"`
	Priority       models.JobPriority `json:"priority"`
	JobURL         string             `json:"jobUrl"`
	AppliedDate    *time.Time         `json:"appliedDate"`
	InterviewDate  *time.Time         `json:"interviewDate"`
	Notes          string             `json:"notes"`
	JobDescription string             `json:"jobDescription"`
	ResumeURL      string             `json:"resumeUrl"`
	ResumeName     string             `json:"resumeName"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// CreateJobRequest is bound from a multipart form or a JSON body
type CreateJobRequest struct {
	Company        string `form:"company" json:"company"`
	JobTitle       string `form:"jobTitle" json:"jobTitle"`
	Status         string `form:"status" json:"status"`
	Priority       string `form:"priority" json:"priority"`
	JobURL         string `form:"jobUrl" json:"jobUrl"`
	AppliedDate    string `form:"appliedDate" json:"appliedDate"`
	InterviewDate  string `form:"interviewDate" json:"interviewDate"`
	Notes          string `form:"notes" json:"notes"`
	JobDescription string `form:"jobDescription" json:"jobDescription"`
}

// UpdateJobRequest is a partial update. Absent fields stay nil.
type UpdateJobRequest struct {
	Company        *string      `json:"company"`
	JobTitle       *string      `json:"jobTitle"`
	Status         *string      `json:"status"`
	Priority       *string      `json:"priority"`
	JobURL         *string      `json:"jobUrl"`
	AppliedDate    NullableDate `json:"appliedDate"`
	InterviewDate  NullableDate `json:"interviewDate"`
	Notes          *string      `json:"notes"`
	JobDescription *string      `json:"jobDescription"`
}

// NullableDate tells an absent date field apart from an explicit null.
// Set is true whenever the key was present in the body.
type NullableDate struct {
	Set   bool
	Value string
}

func (d *NullableDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Value = ""
		return nil
	}
	return json.Unmarshal(data, &d.Value)
}

// Ptr returns nil when the field was absent and the raw value otherwise.
// An explicit null becomes an empty string.
func (d NullableDate) Ptr() *string {
	if !d.Set {
		return nil
	}
	value := d.Value
	return &value
}

// StatsResponse maps a status to the number of jobs in it
type StatsResponse map[models.JobStatus]int64

// FlexibleID accepts a JSON number or a numeric string.
type FlexibleID uint64

var errInvalidID = errors.New("id must be a positive integer")

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return errInvalidID
	}
	*id = FlexibleID(n)
	return nil
}

// AIRequest selects the job an AI document is generated for
type AIRequest struct {
	JobID FlexibleID `json:"jobId" binding:"required"`
}

type CoverLetterResponse struct {
	CoverLetter string `json:"coverLetter"`
}

type InterviewPrepResponse struct {
	InterviewPrep string `json:"interviewPrep"`
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// Conversion functions

// ToJobDTO converts a Job model to JobDTO
func ToJobDTO(job models.Job) JobDTO {
	return JobDTO{
		ID:             job.ID,
		UserID:         job.UserID,
		Company:        job.Company,
		JobTitle:       job.JobTitle,
		Status:         job.Status,
		Priority:       job.Priority,
		JobURL:         job.JobURL,
		AppliedDate:    job.AppliedDate,
		InterviewDate:  job.InterviewDate,
		Notes:          job.Notes,
		JobDescription: job.JobDescription,
		ResumeURL:      job.ResumeURL,
		ResumeName:     job.ResumeName,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

// ToJobDTOs converts a slice of Job models, never returning nil
func ToJobDTOs(jobs []models.Job) []JobDTO {
	dtos := make([]JobDTO, 0, len(jobs))
	for _, job := range jobs {
		dtos = append(dtos, ToJobDTO(job))
	}
	return dtos
}
