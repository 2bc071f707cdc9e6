package domain

import "fmt"

// SyncPhase identifies which half of a full sync failed.
type SyncPhase string

// Sync phases.
const (
	PhasePush SyncPhase = "push"
	PhasePull SyncPhase = "pull"
)

// SyncState is the observable status of synchronisation for the UI.
type SyncState struct {
	// NeedsSync is true while local rows are waiting to be pushed.
	NeedsSync bool

	// LastSyncedAtEpochMs is the watermark of the last successful sync.
	// Nil until one has completed.
	LastSyncedAtEpochMs *int64

	// IsSyncing is true while a sync is running.
	IsSyncing bool

	// SyncError holds the failure of the last sync, if any.
	SyncError error
}

// LastSynced returns the watermark, or zero when no sync has completed.
func (s SyncState) LastSynced() int64 {
	if s.LastSyncedAtEpochMs == nil {
		return 0
	}
	return *s.LastSyncedAtEpochMs
}

// SyncError wraps a remote failure with the phase and entity it occurred on.
type SyncError struct {
	Phase    SyncPhase
	Kind     EntityKind
	RecordID string
	Err      error
}

// Error implements error.
func (e *SyncError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Phase, e.Kind, e.RecordID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Phase, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// KindReport counts what a sync did for one entity kind.
type KindReport struct {
	Pushed  int
	Deleted int
	Pulled  int
	Skipped int
}

// SyncReport summarises a sync run per entity kind.
type SyncReport struct {
	Kinds map[EntityKind]KindReport
}

// NewSyncReport returns an empty report.
func NewSyncReport() SyncReport {
	return SyncReport{Kinds: make(map[EntityKind]KindReport)}
}

// Add records counts for a kind, accumulating with any existing counts.
func (r *SyncReport) Add(kind EntityKind, k KindReport) {
	if r.Kinds == nil {
		r.Kinds = make(map[EntityKind]KindReport)
	}
	cur := r.Kinds[kind]
	cur.Pushed += k.Pushed
	cur.Deleted += k.Deleted
	cur.Pulled += k.Pulled
	cur.Skipped += k.Skipped
	r.Kinds[kind] = cur
}

// Merge folds other into r.
func (r *SyncReport) Merge(other SyncReport) {
	for kind, k := range other.Kinds {
		r.Add(kind, k)
	}
}

// Totals sums the counts across all kinds.
func (r SyncReport) Totals() KindReport {
	var t KindReport
	for _, k := range r.Kinds {
		t.Pushed += k.Pushed
		t.Deleted += k.Deleted
		t.Pulled += k.Pulled
		t.Skipped += k.Skipped
	}
	return t
}

// Checkpoint is the persisted sync watermark for one user.
type Checkpoint struct {
	UserID              string
	LastSyncedAtEpochMs int64
}
