package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

// sqliteDevice opens a fresh SQLite database and wires the services to it.
func sqliteDevice(t *testing.T, remote *memory.RemoteStore, clock *fakeClock, idPrefix string) *fixture {
	t.Helper()
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return newFixtureOn(t, store.LocalStores(), remote, clock, idPrefix)
}

func TestSyncEngine_SQLiteTwoDevices(t *testing.T) {
	remote := memory.NewRemoteStore()
	clock := newFakeClock(1_000)
	phone := sqliteDevice(t, remote, clock, "phone-")
	laptop := sqliteDevice(t, remote, clock, "laptop-")

	app, err := phone.tracker.AddApplication(phone.ctx, driving.ApplicationInput{Company: "Acme", Role: "Engineer"})
	require.NoError(t, err)
	task, err := phone.tracker.AddTask(phone.ctx, driving.TaskInput{ApplicationID: app.ID, Title: "Prep"})
	require.NoError(t, err)
	interview, err := phone.tracker.AddInterview(phone.ctx, driving.InterviewInput{
		ApplicationID:        app.ID,
		ScheduledDateEpochMs: 50_000,
		Mode:                 domain.ModeVideo,
		MeetingLink:          "https://meet.example.com/acme",
	})
	require.NoError(t, err)
	contact, err := phone.tracker.AddContact(phone.ctx, driving.ContactInput{
		ApplicationID: app.ID,
		Name:          "Grace",
		Role:          "Recruiter",
	})
	require.NoError(t, err)

	clock.Set(2_000)
	_, err = phone.tracker.ToggleTaskDone(phone.ctx, task.ID)
	require.NoError(t, err)
	_, err = phone.tracker.ChangeStatus(phone.ctx, app.ID, domain.StatusScreening)
	require.NoError(t, err)

	_, err = phone.engine().PerformFullSync(phone.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, phone.pending(t))

	report, err := laptop.engine().PerformFullSync(laptop.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Totals().Pulled)
	assert.Equal(t, 0, laptop.pending(t))

	pulledApp, err := laptop.apps.Get(laptop.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScreening, pulledApp.Status)
	assert.Equal(t, int64(2_000), pulledApp.UpdatedAtEpochMs)
	assert.False(t, pulledApp.IsDeleted)
	assert.Nil(t, pulledApp.Location)

	pulledTask, err := laptop.tasks.Get(laptop.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, pulledTask.IsDone)
	require.NotNil(t, pulledTask.CompletedAtEpochMs)
	assert.Equal(t, int64(2_000), *pulledTask.CompletedAtEpochMs)
	assert.Nil(t, pulledTask.DueDateEpochMs)

	pulledInterview, err := laptop.interviews.Get(laptop.ctx, interview.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeVideo, pulledInterview.InterviewMode)
	assert.Equal(t, "https://meet.example.com/acme", domain.Deref(pulledInterview.MeetingLink))
	assert.Nil(t, pulledInterview.Location)

	pulledContact, err := laptop.contacts.Get(laptop.ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Recruiter", domain.Deref(pulledContact.ContactRole))
	assert.Nil(t, pulledContact.EmailText)

	history := laptop.historyOf(t, app.ID)
	require.Len(t, history, 2)
	var created, moved *domain.StatusHistory
	for i := range history {
		if history[i].FromStatus == nil {
			created = &history[i]
		} else {
			moved = &history[i]
		}
	}
	require.NotNil(t, created)
	require.NotNil(t, moved)
	assert.Equal(t, domain.StatusApplied, created.ToStatus)
	assert.Equal(t, domain.StatusApplied, *moved.FromStatus)
	assert.Equal(t, domain.StatusScreening, moved.ToStatus)

	// A second sync from the start changes nothing.
	report, err = laptop.engine().PerformFullSync(laptop.ctx, 0)
	require.NoError(t, err)
	totals := report.Totals()
	assert.Zero(t, totals.Pulled)
	assert.Zero(t, totals.Pushed)
	assert.Equal(t, 6, totals.Skipped)
	assert.Len(t, laptop.historyOf(t, app.ID), 2)
	assert.Equal(t, 0, laptop.pending(t))
}

func TestSyncEngine_SQLiteConflicts(t *testing.T) {
	remote := memory.NewRemoteStore()
	clock := newFakeClock(1_000)
	device := sqliteDevice(t, remote, clock, "dev-")

	app, err := device.tracker.AddApplication(device.ctx, driving.ApplicationInput{Company: "Acme", Role: "Engineer"})
	require.NoError(t, err)
	_, err = device.engine().PerformFullSync(device.ctx, 0)
	require.NoError(t, err)

	tied := *app
	tied.Company = "Globex"
	remote.ApplicationDocs().Put(testUser, tied)

	_, err = device.engine().PullRemoteUpdates(device.ctx, 0)
	require.NoError(t, err)
	stored, err := device.apps.Get(device.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.Company)

	newer := *app
	newer.Company = "Initech"
	newer.UpdatedAtEpochMs = app.UpdatedAtEpochMs + 1
	remote.ApplicationDocs().Put(testUser, newer)

	report, err := device.engine().PullRemoteUpdates(device.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Kinds[domain.KindApplications].Pulled)
	stored, err = device.apps.Get(device.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", stored.Company)
	assert.False(t, stored.NeedsSync)

	// A remote tombstone newer than the local row is applied as a soft delete.
	gone := newer
	gone.IsDeleted = true
	gone.UpdatedAtEpochMs = newer.UpdatedAtEpochMs + 1
	remote.ApplicationDocs().Put(testUser, gone)

	_, err = device.engine().PullRemoteUpdates(device.ctx, 0)
	require.NoError(t, err)
	stored, err = device.apps.Get(device.ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, 0, device.pending(t))
}
