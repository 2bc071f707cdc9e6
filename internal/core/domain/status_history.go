package domain

// StatusHistory records one status transition of an application.
// Entries are append-only: once inserted they are never mutated or deleted.
type StatusHistory struct {
	ID               string             `json:"id"`
	ApplicationID    string             `json:"applicationId"`
	FromStatus       *ApplicationStatus `json:"fromStatus"`
	ToStatus         ApplicationStatus  `json:"toStatus"`
	ChangedAtEpochMs int64              `json:"changedAtEpochMs"`
	Note             *string            `json:"note"`

	NeedsSync bool `json:"-"`
}

var _ Record[StatusHistory] = StatusHistory{}

// RecordID implements Record.
func (h StatusHistory) RecordID() string { return h.ID }

// RecordTimestamp implements Record. History is keyed on the change time.
func (h StatusHistory) RecordTimestamp() int64 { return h.ChangedAtEpochMs }

// IsTombstone implements Record. History entries are never deleted.
func (h StatusHistory) IsTombstone() bool { return false }

// IsDirty implements Record.
func (h StatusHistory) IsDirty() bool { return h.NeedsSync }

// WithNeedsSync implements Record.
func (h StatusHistory) WithNeedsSync(v bool) StatusHistory {
	h.NeedsSync = v
	return h
}

// IsInitial reports whether this entry records the creation of the application.
func (h StatusHistory) IsInitial() bool {
	return h.FromStatus == nil
}
