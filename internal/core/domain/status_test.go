package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplicationStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    ApplicationStatus
		wantErr bool
	}{
		{"APPLIED", StatusApplied, false},
		{"applied", StatusApplied, false},
		{"  offer ", StatusOffer, false},
		{"WITHDRAWN", StatusWithdrawn, false},
		{"ghosted", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseApplicationStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplicationStatuses_AllValid(t *testing.T) {
	statuses := ApplicationStatuses()
	assert.Len(t, statuses, 8)
	for _, s := range statuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.Equal(t, StatusDraft, statuses[0])
}

func TestParseInterviewMode(t *testing.T) {
	m, err := ParseInterviewMode("in-person")
	require.NoError(t, err)
	assert.Equal(t, ModeInPerson, m)

	m, err = ParseInterviewMode("video")
	require.NoError(t, err)
	assert.Equal(t, ModeVideo, m)

	_, err = ParseInterviewMode("carrier pigeon")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatus_SerialisesAsName(t *testing.T) {
	data, err := json.Marshal(struct {
		S ApplicationStatus `json:"s"`
		M InterviewMode     `json:"m"`
	}{StatusInterview, ModePhone})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"INTERVIEW","m":"PHONE"}`, string(data))
}
