package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

func TestTaskCmd_Metadata(t *testing.T) {
	assert.Equal(t, "task", taskCmd.Use)
	assert.Equal(t, "add [app-id] [title]", taskAddCmd.Use)
	assert.NotNil(t, taskAddCmd.Flags().Lookup("due"))
}

func TestTaskAddCmd_RequiresTwoArgs(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "task", "add", "only-one")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestTaskAddCmd_AddsWithDueDate(t *testing.T) {
	env := setupTestServices(t)
	app := env.addApplication(t, "Acme", "Engineer")

	out, err := executeCommand(t, "task", "add", app.ID, "Prepare portfolio", "--due", "2024-04-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task")

	out, err = executeCommand(t, "task", "list", app.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] Prepare portfolio")
	assert.Contains(t, out, "due 2024-04-02")
}

func TestTaskAddCmd_RequiresLiveApplication(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "task", "add", "missing", "Prepare portfolio")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "task", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

func TestTaskDoneCmd_Toggles(t *testing.T) {
	env := setupTestServices(t)
	app := env.addApplication(t, "Acme", "Engineer")
	_, err := executeCommand(t, "task", "add", app.ID, "Follow up")
	require.NoError(t, err)
	list, err := firstValue(env.ctx, tasks.ObserveAll)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	out, err := executeCommand(t, "task", "done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed: Follow up")

	out, err = executeCommand(t, "task", "done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Reopened: Follow up")
}

func TestTaskDeleteCmd_RemovesTask(t *testing.T) {
	env := setupTestServices(t)
	app := env.addApplication(t, "Acme", "Engineer")
	_, err := executeCommand(t, "task", "add", app.ID, "Follow up")
	require.NoError(t, err)
	list, err := firstValue(env.ctx, tasks.ObserveAll)
	require.NoError(t, err)
	require.Len(t, list, 1)

	out, err := executeCommand(t, "task", "delete", list[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task")

	out, err = executeCommand(t, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}
