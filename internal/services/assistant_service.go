package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"github.com/ErikLozanov/job-application-tracker/internal/resume"
	"github.com/ErikLozanov/job-application-tracker/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrJobDescriptionRequired = errors.New("job description is required for resume analysis")
	ErrResumeRequired         = errors.New("no resume attached to job")
	ErrResumeUnreadable       = errors.New("resume text could not be extracted")
	ErrGenerationFailed       = errors.New("AI generation failed")
)

// Kinds of generated documents, used as metric labels.
const (
	KindCoverLetter    = "cover_letter"
	KindInterviewPrep  = "interview_prep"
	KindResumeAnalysis = "resume_analysis"
)

var aiGenerations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ai_generations_total",
		Help: "AI generation requests by kind and result.",
	},
	[]string{"kind", "result"},
)

// AssistantService builds prompts from a user's job and resume and sends
// them to the configured TextGenerator.
type AssistantService struct {
	jobs      *JobService
	resumes   resume.TextSource
	generator TextGenerator
}

// NewAssistantService creates an AssistantService. A nil generator leaves
// the assistant unconfigured.
func NewAssistantService(jobs *JobService, resumes resume.TextSource, generator TextGenerator) *AssistantService {
	return &AssistantService{
		jobs:      jobs,
		resumes:   resumes,
		generator: generator,
	}
}

// Enabled reports whether a generator is configured.
func (s *AssistantService) Enabled() bool {
	return s != nil && s.generator != nil
}

// CoverLetter drafts a cover letter for the job.
func (s *AssistantService) CoverLetter(ctx context.Context, userID, jobID uint64) (string, error) {
	job, err := s.loadJob(ctx, userID, jobID)
	if err != nil {
		return "", err
	}

	resumeText, _ := s.resumes.Extract(ctx, job.ResumeKey)
	return s.generate(ctx, KindCoverLetter, coverLetterPrompt(job, resumeText))
}

// InterviewPrep lists likely interview questions with talking points.
func (s *AssistantService) InterviewPrep(ctx context.Context, userID, jobID uint64) (string, error) {
	job, err := s.loadJob(ctx, userID, jobID)
	if err != nil {
		return "", err
	}

	resumeText, _ := s.resumes.Extract(ctx, job.ResumeKey)
	return s.generate(ctx, KindInterviewPrep, interviewPrepPrompt(job, resumeText))
}

// AnalyzeResume compares the attached resume with the job description.
func (s *AssistantService) AnalyzeResume(ctx context.Context, userID, jobID uint64) (string, error) {
	job, err := s.loadJob(ctx, userID, jobID)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(job.JobDescription) == "" {
		return "", ErrJobDescriptionRequired
	}
	if !job.HasResume() {
		return "", ErrResumeRequired
	}

	resumeText, ok := s.resumes.Extract(ctx, job.ResumeKey)
	if !ok {
		return "", ErrResumeUnreadable
	}

	return s.generate(ctx, KindResumeAnalysis, resumeAnalysisPrompt(job, resumeText))
}

func (s *AssistantService) loadJob(ctx context.Context, userID, jobID uint64) (*models.Job, error) {
	if !s.Enabled() {
		return nil, ErrAIServiceNotConfigured
	}
	return s.jobs.GetJob(ctx, userID, jobID)
}

func (s *AssistantService) generate(ctx context.Context, kind, prompt string) (string, error) {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		aiGenerations.WithLabelValues(kind, "error").Inc()
		log.Printf("AI %s generation failed: %v", kind, err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	aiGenerations.WithLabelValues(kind, "success").Inc()
	return strings.TrimSpace(text), nil
}

func coverLetterPrompt(job *models.Job, resumeText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a professional and enthusiastic cover letter for a %s position at %s.\n\n", job.JobTitle, job.Company)
	b.WriteString("Key details to include:\n")
	fmt.Fprintf(&b, "- Express strong interest in %s.\n", job.Company)
	fmt.Fprintf(&b, "- Mention that I have relevant skills for a %s.\n", job.JobTitle)
	fmt.Fprintf(&b, "- Use these specific notes from my research: %q\n", utils.OrDefault(job.Notes, "No specific notes provided."))

	if desc := utils.Truncate(job.JobDescription, constants.JobDescriptionLimit); desc != "" {
		fmt.Fprintf(&b, "\nJob description:\n%s\n", desc)
	}
	if text := utils.Truncate(resumeText, constants.ResumeTextLimit); text != "" {
		fmt.Fprintf(&b, "\nMy resume:\n%s\n\nRefer to concrete experience from the resume where it matches the role.\n", text)
	}

	b.WriteString("\nKeep it concise (under 250 words), professional, and ready to copy-paste.\n")
	b.WriteString("Do not include placeholders like \"[Your Name]\" unless necessary.")
	return b.String()
}

func interviewPrepPrompt(job *models.Job, resumeText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I have an interview for a %s position at %s.\n\n", job.JobTitle, job.Company)
	b.WriteString("Prepare me with:\n")
	b.WriteString("1. Five technical questions I am likely to be asked, each with suggested talking points.\n")
	b.WriteString("2. Three behavioural questions, each with a suggested answer structure.\n")
	b.WriteString("3. Two thoughtful questions I can ask the interviewer.\n")

	if notes := strings.TrimSpace(job.Notes); notes != "" {
		fmt.Fprintf(&b, "\nMy notes about the company:\n%s\n", notes)
	}
	if desc := utils.Truncate(job.JobDescription, constants.JobDescriptionLimit); desc != "" {
		fmt.Fprintf(&b, "\nJob description:\n%s\n", desc)
	}
	if text := utils.Truncate(resumeText, constants.ResumeTextLimit); text != "" {
		fmt.Fprintf(&b, "\nMy resume:\n%s\n\nTie the talking points to my actual experience.\n", text)
	}

	b.WriteString("\nFormat the answer in Markdown with clear headings.")
	return b.String()
}

func resumeAnalysisPrompt(job *models.Job, resumeText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Act as an experienced technical recruiter. Compare my resume with the job description for a %s position at %s.\n\n", job.JobTitle, job.Company)
	fmt.Fprintf(&b, "Job description:\n%s\n\n", utils.Truncate(job.JobDescription, constants.AnalysisDescriptionLimit))
	fmt.Fprintf(&b, "Resume:\n%s\n\n", utils.Truncate(resumeText, constants.AnalysisResumeLimit))
	b.WriteString("Respond in Markdown with these sections:\n")
	b.WriteString("- Match score (0-100) with a one-sentence justification\n")
	b.WriteString("- Matching skills and experience\n")
	b.WriteString("- Missing keywords and skills\n")
	b.WriteString("- Concrete suggestions to improve the resume for this role")
	return b.String()
}
