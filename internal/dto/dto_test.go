package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateJobRequest_DatePresence(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		want    string
	}{
		{name: "absent", body: `{}`, wantSet: false},
		{name: "null", body: `{"appliedDate":null}`, wantSet: true, want: ""},
		{name: "empty", body: `{"appliedDate":""}`, wantSet: true, want: ""},
		{name: "value", body: `{"appliedDate":"2024-05-01"}`, wantSet: true, want: "2024-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateJobRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			ptr := req.AppliedDate.Ptr()
			if !tt.wantSet {
				assert.Nil(t, ptr)
				return
			}
			require.NotNil(t, ptr)
			assert.Equal(t, tt.want, *ptr)
			assert.Nil(t, req.InterviewDate.Ptr())
		})
	}
}

func TestUpdateJobRequest_DateMustBeString(t *testing.T) {
	var req UpdateJobRequest
	assert.Error(t, json.Unmarshal([]byte(`{"appliedDate":20240501}`), &req))
}

func TestFlexibleID(t *testing.T) {
	valid := map[string]FlexibleID{
		`{"jobId":12}`:   12,
		`{"jobId":"12"}`: 12,
	}
	for body, want := range valid {
		var req AIRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, req.JobID)
	}

	for _, body := range []string{`{"jobId":"abc"}`, `{"jobId":-1}`, `{"jobId":1.5}`, `{"jobId":0}`} {
		var req AIRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestToJobDTO_UsesCamelCase(t *testing.T) {
	applied := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	job := models.Job{
		ID:          1,
		UserID:      2,
		Company:     "Acme",
		JobTitle:    "Dev",
		Status:      models.JobStatusApplied,
		Priority:    models.JobPriorityHigh,
		AppliedDate: &applied,
		ResumeKey:   "resumes/2/1-cv.pdf",
	}

	data, err := json.Marshal(ToJobDTO(job))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Dev", out["jobTitle"])
	assert.Equal(t, "2024-03-01T00:00:00Z", out["appliedDate"])
	assert.Nil(t, out["interviewDate"])
	assert.NotContains(t, out, "resumeKey")
	assert.NotContains(t, out, "ResumeKey")
}

func TestToJobDTOs_Empty(t *testing.T) {
	dtos := ToJobDTOs(nil)
	require.NotNil(t, dtos)
	assert.Len(t, dtos, 0)
}
