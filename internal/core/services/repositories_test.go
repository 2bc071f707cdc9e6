package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

func newApp(id string, status domain.ApplicationStatus) domain.Application {
	return domain.Application{
		ID:                 id,
		Company:            "Acme",
		Role:               "Engineer",
		Status:             status,
		AppliedDateEpochMs: 500,
		UpdatedAtEpochMs:   500,
	}
}

func TestApplicationRepository_AddRecordsInitialHistory(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.apps.Add(f.ctx, newApp("a1", domain.StatusApplied)))

	app, err := f.apps.Get(f.ctx, "a1")
	require.NoError(t, err)
	assert.True(t, app.NeedsSync)

	history := f.historyOf(t, "a1")
	require.Len(t, history, 1)
	entry := history[0]
	assert.Nil(t, entry.FromStatus)
	assert.Equal(t, domain.StatusApplied, entry.ToStatus)
	assert.Equal(t, int64(500), entry.ChangedAtEpochMs)
	assert.Equal(t, "Application created", domain.Deref(entry.Note))
	assert.True(t, entry.NeedsSync)
	assert.True(t, entry.IsInitial())
}

func TestApplicationRepository_UpdateStatusChange(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apps.Add(f.ctx, newApp("a1", domain.StatusApplied)))

	f.clock.Set(2_000)
	app := newApp("a1", domain.StatusInterview)
	updated, err := f.apps.Update(f.ctx, app)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000), updated.UpdatedAtEpochMs)
	assert.True(t, updated.NeedsSync)

	history := f.historyOf(t, "a1")
	require.Len(t, history, 2)
	transition := history[1]
	require.NotNil(t, transition.FromStatus)
	assert.Equal(t, domain.StatusApplied, *transition.FromStatus)
	assert.Equal(t, domain.StatusInterview, transition.ToStatus)
	assert.Equal(t, int64(2_000), transition.ChangedAtEpochMs)
	assert.Nil(t, transition.Note)
}

func TestApplicationRepository_UpdateWithoutStatusChange(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apps.Add(f.ctx, newApp("a1", domain.StatusApplied)))

	app := newApp("a1", domain.StatusApplied)
	app.Notes = "recruiter called"
	_, err := f.apps.Update(f.ctx, app)
	require.NoError(t, err)

	assert.Len(t, f.historyOf(t, "a1"), 1)

	stored, err := f.apps.Get(f.ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "recruiter called", stored.Notes)
}

func TestApplicationRepository_UpdateMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.apps.Update(f.ctx, newApp("nope", domain.StatusApplied))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationRepository_Delete(t *testing.T) {
	f := newFixture(t)
	app := newApp("a1", domain.StatusApplied)
	app.NeedsSync = false
	require.NoError(t, f.stores.Applications.Upsert(f.ctx, app))

	f.clock.Set(3_000)
	require.NoError(t, f.apps.Delete(f.ctx, "a1"))

	stored, err := f.apps.Get(f.ctx, "a1")
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.True(t, stored.NeedsSync)
	assert.Equal(t, int64(3_000), stored.UpdatedAtEpochMs)

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	ch, err := f.apps.ObserveAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, first(t, ch))
}

func TestApplicationRepository_DeleteMissing(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.apps.Delete(f.ctx, "nope"), domain.ErrNotFound)
}

func TestApplicationRepository_DeleteTombstone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apps.Add(f.ctx, newApp("a1", domain.StatusApplied)))

	f.clock.Set(3_000)
	require.NoError(t, f.apps.Delete(f.ctx, "a1"))
	_, err := f.engine().PushLocalChanges(f.ctx)
	require.NoError(t, err)

	f.clock.Set(4_000)
	assert.ErrorIs(t, f.apps.Delete(f.ctx, "a1"), domain.ErrNotFound)

	stored, err := f.apps.Get(f.ctx, "a1")
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.False(t, stored.NeedsSync)
	assert.Equal(t, int64(3_000), stored.UpdatedAtEpochMs)
}

func TestApplicationRepository_Search(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apps.Add(f.ctx, newApp("a1", domain.StatusApplied)))
	other := newApp("a2", domain.StatusApplied)
	other.Company = "Globex"
	other.Role = "Designer"
	require.NoError(t, f.apps.Add(f.ctx, other))

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	ch, err := f.apps.Search(ctx, "ENGIN")
	require.NoError(t, err)

	results := first(t, ch)
	require.Len(t, results, 1)
	assert.Equal(t, "a1", results[0].ID)
}

func TestTaskRepository_UpdateStampsTime(t *testing.T) {
	f := newFixture(t)
	task := domain.Task{ID: "t1", ApplicationID: "a1", Title: "Send thank-you", UpdatedAtEpochMs: 1}
	require.NoError(t, f.tasks.Add(f.ctx, task))
	require.NoError(t, f.stores.Tasks.MarkSynced(f.ctx, "t1"))

	f.clock.Set(4_000)
	task.Title = "Send thank-you note"
	updated, err := f.tasks.Update(f.ctx, task)
	require.NoError(t, err)
	assert.Equal(t, int64(4_000), updated.UpdatedAtEpochMs)
	assert.True(t, updated.NeedsSync)

	stored, err := f.tasks.Get(f.ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Send thank-you note", stored.Title)
	assert.True(t, stored.NeedsSync)
}

func TestTaskRepository_UpdateMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.tasks.Update(f.ctx, domain.Task{ID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepository_ToggleDone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tasks.Add(f.ctx, domain.Task{ID: "t1", ApplicationID: "a1", Title: "Prep"}))

	f.clock.Set(5_000)
	done, err := f.tasks.ToggleDone(f.ctx, "t1")
	require.NoError(t, err)
	assert.True(t, done.IsDone)
	require.NotNil(t, done.CompletedAtEpochMs)
	assert.Equal(t, int64(5_000), *done.CompletedAtEpochMs)
	assert.Equal(t, int64(5_000), done.UpdatedAtEpochMs)

	f.clock.Set(6_000)
	reopened, err := f.tasks.ToggleDone(f.ctx, "t1")
	require.NoError(t, err)
	assert.False(t, reopened.IsDone)
	assert.Nil(t, reopened.CompletedAtEpochMs)
	assert.Equal(t, int64(6_000), reopened.UpdatedAtEpochMs)
	assert.True(t, reopened.NeedsSync)
}

func TestTaskRepository_DeleteAndObserve(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tasks.Add(f.ctx, domain.Task{ID: "t1", ApplicationID: "a1", Title: "Prep"}))
	require.NoError(t, f.tasks.Add(f.ctx, domain.Task{ID: "t2", ApplicationID: "a1", Title: "Follow up"}))
	require.NoError(t, f.tasks.Add(f.ctx, domain.Task{ID: "t3", ApplicationID: "a2", Title: "Other"}))

	require.NoError(t, f.tasks.Delete(f.ctx, "t1"))
	assert.ErrorIs(t, f.tasks.Delete(f.ctx, "missing"), domain.ErrNotFound)

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	ch, err := f.tasks.ObserveByApplication(ctx, "a1")
	require.NoError(t, err)

	tasks := first(t, ch)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", tasks[0].ID)
}

func TestInterviewRepository_ObserveUpcoming(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(10_000)
	require.NoError(t, f.interviews.Add(f.ctx, domain.Interview{
		ID: "past", ApplicationID: "a1", ScheduledDateEpochMs: 9_000, InterviewMode: domain.ModePhone,
	}))
	require.NoError(t, f.interviews.Add(f.ctx, domain.Interview{
		ID: "later", ApplicationID: "a1", ScheduledDateEpochMs: 30_000, InterviewMode: domain.ModeVideo,
	}))
	require.NoError(t, f.interviews.Add(f.ctx, domain.Interview{
		ID: "soon", ApplicationID: "a1", ScheduledDateEpochMs: 20_000, InterviewMode: domain.ModeInPerson,
	}))

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	ch, err := f.interviews.ObserveUpcoming(ctx)
	require.NoError(t, err)

	upcoming := first(t, ch)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "soon", upcoming[0].ID)
	assert.Equal(t, "later", upcoming[1].ID)
}

func TestContactRepository_Delete(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.contacts.Add(f.ctx, domain.Contact{ID: "c1", ApplicationID: "a1", ContactName: "Grace"}))

	f.clock.Set(7_000)
	require.NoError(t, f.contacts.Delete(f.ctx, "c1"))

	stored, err := f.contacts.Get(f.ctx, "c1")
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, int64(7_000), stored.UpdatedAtEpochMs)
	assert.True(t, stored.NeedsSync)
}

func TestContactRepository_DeleteTombstone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.contacts.Add(f.ctx, domain.Contact{ID: "c1", ApplicationID: "a1", ContactName: "Grace"}))

	f.clock.Set(7_000)
	require.NoError(t, f.contacts.Delete(f.ctx, "c1"))
	require.NoError(t, f.stores.Contacts.MarkSynced(f.ctx, "c1"))

	f.clock.Set(8_000)
	assert.ErrorIs(t, f.contacts.Delete(f.ctx, "c1"), domain.ErrNotFound)

	stored, err := f.contacts.Get(f.ctx, "c1")
	require.NoError(t, err)
	assert.False(t, stored.NeedsSync)
	assert.Equal(t, int64(7_000), stored.UpdatedAtEpochMs)
}

func TestStatusHistoryRepository_InsertIsAppendOnly(t *testing.T) {
	f := newFixture(t)
	entry := domain.StatusHistory{ID: "h1", ApplicationID: "a1", ToStatus: domain.StatusApplied, ChangedAtEpochMs: 10}
	require.NoError(t, f.history.Insert(f.ctx, entry))

	changed := entry
	changed.ToStatus = domain.StatusRejected
	require.NoError(t, f.history.Insert(f.ctx, changed))

	history := f.historyOf(t, "a1")
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusApplied, history[0].ToStatus)
	assert.True(t, history[0].NeedsSync)
}
