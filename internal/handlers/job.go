package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/ErikLozanov/job-application-tracker/internal/dto"
	apierrors "github.com/ErikLozanov/job-application-tracker/internal/errors"
	"github.com/ErikLozanov/job-application-tracker/internal/middleware"
	"github.com/ErikLozanov/job-application-tracker/internal/services"
	"github.com/ErikLozanov/job-application-tracker/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	msgJobNotFound = "Job not found"
	msgJobRemoved  = "Job removed successfully"

	// room for the form fields next to the resume
	maxCreateBodySize = constants.MaxResumeSize + 1<<20
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// ListJobs returns the current user's jobs
// Supports search, status and limit query parameters
func (h *JobHandler) ListJobs(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), services.ListJobsInput{
		UserID: userID,
		Search: c.Query("search"),
		Status: c.Query("status"),
		Limit:  utils.GetLimitParam(c),
	})
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobDTOs(jobs))
}

// GetJob returns a single job owned by the current user
func (h *JobHandler) GetJob(c *gin.Context) {
	userID, jobID, ok := jobRequestIDs(c)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), userID, jobID)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobDTO(*job))
}

// CreateJob creates a job from a multipart form with an optional resume
// file, or from a JSON body
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCreateBodySize)

	var req dto.CreateJobRequest
	var bindErr error
	if c.ContentType() == binding.MIMEJSON {
		bindErr = c.ShouldBindJSON(&req)
	} else {
		bindErr = c.ShouldBind(&req)
	}
	if bindErr != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(bindErr, &maxBytesErr) {
			respondJobError(c, services.ErrResumeTooLarge)
			return
		}
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateJobInput{
		UserID:         userID,
		Company:        req.Company,
		JobTitle:       req.JobTitle,
		Status:         req.Status,
		Priority:       req.Priority,
		JobURL:         req.JobURL,
		AppliedDate:    req.AppliedDate,
		InterviewDate:  req.InterviewDate,
		Notes:          req.Notes,
		JobDescription: req.JobDescription,
	}

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		fileHeader, err := c.FormFile(constants.ResumeFormField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// no resume attached
		case err != nil:
			apierrors.BadRequest(c, "Invalid resume upload")
			return
		default:
			file, err := fileHeader.Open()
			if err != nil {
				apierrors.BadRequest(c, "Invalid resume upload")
				return
			}
			defer file.Close()
			input.Resume = toResumeUpload(fileHeader, file)
		}
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), input)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJobDTO(*job))
}

// UpdateJob applies a partial update to a job
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, jobID, ok := jobRequestIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), userID, jobID, services.UpdateJobInput{
		Company:        req.Company,
		JobTitle:       req.JobTitle,
		Status:         req.Status,
		Priority:       req.Priority,
		JobURL:         req.JobURL,
		AppliedDate:    req.AppliedDate.Ptr(),
		InterviewDate:  req.InterviewDate.Ptr(),
		Notes:          req.Notes,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobDTO(*job))
}

// DeleteJob deletes a job
func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, jobID, ok := jobRequestIDs(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), userID, jobID); err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgJobRemoved})
}

// GetStats returns the number of jobs per status
func (h *JobHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.jobService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse(stats))
}

func jobRequestIDs(c *gin.Context) (uint64, uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid job ID")
		return 0, 0, false
	}

	return userID, jobID, true
}

func toResumeUpload(header *multipart.FileHeader, file multipart.File) *services.ResumeUpload {
	contentType := header.Header.Get("Content-Type")
	return &services.ResumeUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     file,
	}
}

func respondJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		apierrors.NotFound(c, msgJobNotFound)
	case errors.Is(err, services.ErrCompanyRequired):
		apierrors.BadRequest(c, "Company is required")
	case errors.Is(err, services.ErrJobTitleRequired):
		apierrors.BadRequest(c, "Job title is required")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, "Status must be one of APPLIED, INTERVIEW, OFFER, REJECTED")
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, "Priority must be one of LOW, MEDIUM, HIGH")
	case errors.Is(err, services.ErrInvalidDate):
		apierrors.BadRequest(c, "Dates must be formatted as YYYY-MM-DD or RFC 3339")
	case errors.Is(err, services.ErrResumeTooLarge):
		apierrors.BadRequest(c, fmt.Sprintf("Resume must be at most %d MB", constants.MaxResumeSize>>20))
	case errors.Is(err, services.ErrResumeUploadFailed):
		log.Printf("Resume upload failed: %v", err)
		apierrors.InternalError(c, "Failed to upload resume")
	default:
		log.Printf("Job request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}
