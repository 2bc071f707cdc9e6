package domain

// EntityKind names a synchronised collection. The value is also the remote
// collection name.
type EntityKind string

// Synchronised entity kinds.
const (
	KindApplications  EntityKind = "applications"
	KindTasks         EntityKind = "tasks"
	KindInterviews    EntityKind = "interviews"
	KindContacts      EntityKind = "contacts"
	KindStatusHistory EntityKind = "statusHistory"
)

// SyncOrder is the fixed order in which kinds are pushed and pulled.
// Parents come before children so a fresh replica never sees an orphan
// for longer than one kind's worth of work.
var SyncOrder = []EntityKind{
	KindApplications,
	KindTasks,
	KindInterviews,
	KindContacts,
	KindStatusHistory,
}

// String returns the collection name.
func (k EntityKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is one of the synchronised collections.
func (k EntityKind) IsValid() bool {
	for _, known := range SyncOrder {
		if k == known {
			return true
		}
	}
	return false
}

// Record is implemented by every synchronised entity type T.
type Record[T any] interface {
	// RecordID returns the stable primary identifier.
	RecordID() string

	// RecordTimestamp returns the timestamp used for last-writer-wins and
	// for "since" queries: updatedAtEpochMs, or changedAtEpochMs for history.
	RecordTimestamp() int64

	// IsTombstone reports whether the record is soft-deleted.
	IsTombstone() bool

	// IsDirty reports whether the record has unpushed local changes.
	IsDirty() bool

	// WithNeedsSync returns a copy with the NeedsSync flag set to v.
	WithNeedsSync(v bool) T
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the value behind p, or the empty string.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
