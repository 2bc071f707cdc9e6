package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

func TestInterviewAddCmd_Flags(t *testing.T) {
	for _, name := range []string{"at", "mode", "interviewer", "email", "location", "link", "notes"} {
		assert.NotNil(t, interviewAddCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "video", interviewAddCmd.Flags().Lookup("mode").DefValue)
	assert.Contains(t, interviewAddCmd.Long, "--at")
}

func TestInterviewAddCmd_RequiresAt(t *testing.T) {
	env := setupTestServices(t)
	app := env.addApplication(t, "Acme", "Engineer")

	_, err := executeCommand(t, "interview", "add", app.ID)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "--at")
}

func TestInterviewAddCmd_InvalidMode(t *testing.T) {
	env := setupTestServices(t)
	app := env.addApplication(t, "Acme", "Engineer")

	_, err := executeCommand(t, "interview", "add", app.ID, "--at", "2030-01-01", "--mode", "carrier-pigeon")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInterviewAddCmd_Schedules(t *testing.T) {
	env := setupTestServices(t)
	app := env.addApplication(t, "Acme", "Engineer")

	out, err := executeCommand(t, "interview", "add", app.ID,
		"--at", "2030-05-01 14:30", "--mode", "in-person", "--location", "Acme HQ")
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled interview")
	assert.Contains(t, out, "2030-05-01 14:30")

	list, err := firstValue(env.ctx, interviews.ObserveAll)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ModeInPerson, list[0].InterviewMode)
	assert.Equal(t, "Acme HQ", domain.Deref(list[0].Location))

	out, err = executeCommand(t, "interview", "list", app.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "IN_PERSON")
	assert.Contains(t, out, "at Acme HQ")
}

func TestInterviewUpcomingCmd_ExcludesPast(t *testing.T) {
	env := setupTestServices(t)
	app := env.addApplication(t, "Acme", "Engineer")
	_, err := executeCommand(t, "interview", "add", app.ID, "--at", "2001-01-01 09:00", "--link", "https://meet.example/past")
	require.NoError(t, err)
	_, err = executeCommand(t, "interview", "add", app.ID, "--at", "2999-01-01 09:00", "--link", "https://meet.example/future")
	require.NoError(t, err)

	out, err := executeCommand(t, "interview", "upcoming")

	require.NoError(t, err)
	assert.Contains(t, out, "https://meet.example/future")
	assert.NotContains(t, out, "https://meet.example/past")
}

func TestInterviewListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "interview", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No interviews found.")
}

func TestInterviewDeleteCmd_UnknownID(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "interview", "delete", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
