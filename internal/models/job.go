package models

import (
	"time"
)

type JobStatus string

const (
	JobStatusApplied   JobStatus = "APPLIED"
	JobStatusInterview JobStatus = "INTERVIEW"
	JobStatusOffer     JobStatus = "OFFER"
	JobStatusRejected  JobStatus = "REJECTED"
)

// JobStatuses lists every status in pipeline order.
var JobStatuses = []JobStatus{
	JobStatusApplied,
	JobStatusInterview,
	JobStatusOffer,
	JobStatusRejected,
}

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	for _, known := range JobStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type JobPriority string

const (
	JobPriorityLow    JobPriority = "LOW"
	JobPriorityMedium JobPriority = "MEDIUM"
	JobPriorityHigh   JobPriority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p JobPriority) Valid() bool {
	switch p {
	case JobPriorityLow, JobPriorityMedium, JobPriorityHigh:
		return true
	}
	return false
}

type Job struct {
	ID             uint64      `gorm:"primarykey" json:"id"`
	UserID         uint64      `gorm:"not null;index:idx_jobs_user_updated,priority:1" json:"userId"`
	Company        string      `gorm:"type:varchar(255);not null" json:"company"`
	JobTitle       string      `gorm:"type:varchar(255);not null" json:"jobTitle"`
	Status         JobStatus   `gorm:"type:varchar(20);not null;default:'APPLIED';index" json:"status"`
	Priority       JobPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	JobURL         string      `gorm:"type:varchar(2048)" json:"jobUrl"`
	AppliedDate    *time.Time  `json:"appliedDate"`
	InterviewDate  *time.Time  `json:"interviewDate"`
	Notes          string      `gorm:"type:text" json:"notes"`
	JobDescription string      `gorm:"type:text" json:"jobDescription"`
	ResumeURL      string      `gorm:"type:varchar(2048)" json:"resumeUrl"`
	ResumeName     string      `gorm:"type:varchar(255)" json:"resumeName"`
	ResumeKey      string      `gorm:"type:varchar(1024)" json:"-"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `gorm:"index:idx_jobs_user_updated,priority:2" json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// HasResume reports whether a resume file is attached.
func (j *Job) HasResume() bool {
	return j.ResumeKey != ""
}
