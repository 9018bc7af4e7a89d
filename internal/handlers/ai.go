package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/ErikLozanov/job-application-tracker/internal/dto"
	apierrors "github.com/ErikLozanov/job-application-tracker/internal/errors"
	"github.com/ErikLozanov/job-application-tracker/internal/middleware"
	"github.com/ErikLozanov/job-application-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// AIHandler serves the generated documents of the assistant.
type AIHandler struct {
	assistant *services.AssistantService
}

func NewAIHandler(assistant *services.AssistantService) *AIHandler {
	return &AIHandler{
		assistant: assistant,
	}
}

// CoverLetter drafts a cover letter for a job
func (h *AIHandler) CoverLetter(c *gin.Context) {
	text, ok := h.generate(c, "cover letter", h.assistant.CoverLetter)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.CoverLetterResponse{CoverLetter: text})
}

// InterviewQuestions prepares likely interview questions for a job
func (h *AIHandler) InterviewQuestions(c *gin.Context) {
	text, ok := h.generate(c, "interview questions", h.assistant.InterviewPrep)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.InterviewPrepResponse{InterviewPrep: text})
}

// AnalyzeResume compares the job's resume with its description
func (h *AIHandler) AnalyzeResume(c *gin.Context) {
	text, ok := h.generate(c, "resume analysis", h.assistant.AnalyzeResume)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.AnalysisResponse{Analysis: text})
}

type generateFunc func(ctx context.Context, userID, jobID uint64) (string, error)

func (h *AIHandler) generate(c *gin.Context, what string, fn generateFunc) (string, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", false
	}

	var req dto.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A valid jobId is required")
		return "", false
	}

	text, err := fn(c.Request.Context(), userID, uint64(req.JobID))
	if err != nil {
		respondAIError(c, what, err)
		return "", false
	}
	return text, true
}

func respondAIError(c *gin.Context, what string, err error) {
	switch {
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrJobNotFound):
		apierrors.NotFound(c, msgJobNotFound)
	case errors.Is(err, services.ErrJobDescriptionRequired):
		apierrors.BadRequest(c, "Job description is required for resume analysis")
	case errors.Is(err, services.ErrResumeRequired):
		apierrors.BadRequest(c, "Upload a resume to this job before requesting an analysis")
	case errors.Is(err, services.ErrResumeUnreadable):
		apierrors.BadRequest(c, "Resume text could not be extracted")
	case errors.Is(err, services.ErrGenerationFailed):
		apierrors.InternalError(c, "Failed to generate "+what)
	default:
		log.Printf("AI request %s failed: %v", c.FullPath(), err)
		apierrors.InternalError(c, "Failed to generate "+what)
	}
}
