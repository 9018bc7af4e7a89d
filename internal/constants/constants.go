package constants

import "time"

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Auth
const (
	MinPasswordLength  = 6
	BearerPrefix       = "Bearer "
	MinJWTSecretLength = 32
)

// Jobs
const (
	MaxJobListLimit = 100
	StatusFilterAll = "ALL"
	MaxResumeSize   = 5 << 20
	ResumeFormField = "resume"
	ResumeKeyPrefix = "resumes"
)

// AI prompt budgets, in characters
const (
	ResumeTextLimit          = 3000
	JobDescriptionLimit      = 3000
	AnalysisResumeLimit      = 10000
	AnalysisDescriptionLimit = 5000
)

// Rate limiting
const (
	DefaultAIRequestsPerHour = 30
	RateLimitWindow          = time.Hour
)
