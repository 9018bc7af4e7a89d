package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestAssistant(t *testing.T, job *models.Job, texts map[string]string, gen TextGenerator) *AssistantService {
	t.Helper()
	repo := &mockJobRepository{
		findOwnedFunc: func(ctx context.Context, userID, id uint64) (*models.Job, error) {
			if job == nil || userID != job.UserID || id != job.ID {
				return nil, gorm.ErrRecordNotFound
			}
			copied := *job
			return &copied, nil
		},
	}
	jobs := NewJobService(repo, newTestLocalStore(t))
	return NewAssistantService(jobs, &fakeTextSource{texts: texts}, gen)
}

func TestAssistant_NotConfigured(t *testing.T) {
	assistant := setupTestAssistant(t, nil, nil, nil)
	assert.False(t, assistant.Enabled())

	_, err := assistant.CoverLetter(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
	_, err = assistant.InterviewPrep(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
	_, err = assistant.AnalyzeResume(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}

func TestAssistant_CoverLetter(t *testing.T) {
	job := &models.Job{
		ID:             1,
		UserID:         7,
		Company:        "Acme",
		JobTitle:       "Go Developer",
		Notes:          "They love Kubernetes",
		JobDescription: strings.Repeat("d", 4000),
		ResumeKey:      "resumes/7/cv.pdf",
	}
	gen := &fakeGenerator{reply: "  Dear Acme team  "}
	assistant := setupTestAssistant(t, job, map[string]string{"resumes/7/cv.pdf": "Five years of Go"}, gen)

	letter, err := assistant.CoverLetter(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dear Acme team", letter)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Go Developer position at Acme")
	assert.Contains(t, prompt, "They love Kubernetes")
	assert.Contains(t, prompt, "Five years of Go")
	assert.Contains(t, prompt, strings.Repeat("d", 3000))
	assert.NotContains(t, prompt, strings.Repeat("d", 3001))
}

func TestAssistant_CoverLetterWithoutResumeOrNotes(t *testing.T) {
	job := &models.Job{ID: 1, UserID: 7, Company: "Acme", JobTitle: "Dev"}
	gen := &fakeGenerator{reply: "letter"}
	assistant := setupTestAssistant(t, job, nil, gen)

	_, err := assistant.CoverLetter(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0], "No specific notes provided.")
	assert.NotContains(t, gen.prompts[0], "My resume")
}

func TestAssistant_ForeignJob(t *testing.T) {
	job := &models.Job{ID: 1, UserID: 7, Company: "Acme", JobTitle: "Dev"}
	gen := &fakeGenerator{reply: "x"}
	assistant := setupTestAssistant(t, job, nil, gen)

	_, err := assistant.InterviewPrep(context.Background(), 8, 1)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Empty(t, gen.prompts)
}

func TestAssistant_InterviewPrep(t *testing.T) {
	job := &models.Job{ID: 2, UserID: 7, Company: "Acme", JobTitle: "SRE", JobDescription: "On-call rotations"}
	gen := &fakeGenerator{reply: "## Questions"}
	assistant := setupTestAssistant(t, job, nil, gen)

	prep, err := assistant.InterviewPrep(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, "## Questions", prep)
	assert.Contains(t, gen.prompts[0], "On-call rotations")
	assert.Contains(t, gen.prompts[0], "behavioural")
}

func TestAssistant_AnalyzeResumePreconditions(t *testing.T) {
	tests := []struct {
		name    string
		job     *models.Job
		texts   map[string]string
		wantErr error
	}{
		{
			name:    "missing description",
			job:     &models.Job{ID: 1, UserID: 7, Company: "Acme", JobTitle: "Dev", ResumeKey: "k"},
			texts:   map[string]string{"k": "resume"},
			wantErr: ErrJobDescriptionRequired,
		},
		{
			name:    "missing resume",
			job:     &models.Job{ID: 1, UserID: 7, Company: "Acme", JobTitle: "Dev", JobDescription: "desc"},
			wantErr: ErrResumeRequired,
		},
		{
			name:    "unreadable resume",
			job:     &models.Job{ID: 1, UserID: 7, Company: "Acme", JobTitle: "Dev", JobDescription: "desc", ResumeKey: "k"},
			wantErr: ErrResumeUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: "analysis"}
			assistant := setupTestAssistant(t, tt.job, tt.texts, gen)

			_, err := assistant.AnalyzeResume(context.Background(), 7, 1)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, gen.prompts)
		})
	}
}

func TestAssistant_AnalyzeResumeTruncates(t *testing.T) {
	job := &models.Job{
		ID:             1,
		UserID:         7,
		Company:        "Acme",
		JobTitle:       "Dev",
		JobDescription: strings.Repeat("d", 6000),
		ResumeKey:      "k",
	}
	gen := &fakeGenerator{reply: "Match score: 80"}
	assistant := setupTestAssistant(t, job, map[string]string{"k": strings.Repeat("r", 12000)}, gen)

	analysis, err := assistant.AnalyzeResume(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "Match score: 80", analysis)

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, strings.Repeat("d", 5000))
	assert.NotContains(t, prompt, strings.Repeat("d", 5001))
	assert.Contains(t, prompt, strings.Repeat("r", 10000))
	assert.NotContains(t, prompt, strings.Repeat("r", 10001))
}

func TestAssistant_ProviderError(t *testing.T) {
	job := &models.Job{ID: 1, UserID: 7, Company: "Acme", JobTitle: "Dev"}
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	assistant := setupTestAssistant(t, job, nil, gen)

	_, err := assistant.CoverLetter(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Len(t, gen.prompts, 1)
}
