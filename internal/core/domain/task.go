package domain

import "strings"

// Task is a to-do item attached to an application.
type Task struct {
	ID                 string `json:"id"`
	ApplicationID      string `json:"applicationId"`
	Title              string `json:"title"`
	DueDateEpochMs     *int64 `json:"dueDateEpochMs"`
	IsDone             bool   `json:"isDone"`
	CompletedAtEpochMs *int64 `json:"completedAtEpochMs"`
	UpdatedAtEpochMs   int64  `json:"updatedAtEpochMs"`
	IsDeleted          bool   `json:"isDeleted"`

	NeedsSync bool `json:"-"`
}

var _ Record[Task] = Task{}

// RecordID implements Record.
func (t Task) RecordID() string { return t.ID }

// RecordTimestamp implements Record.
func (t Task) RecordTimestamp() int64 { return t.UpdatedAtEpochMs }

// IsTombstone implements Record.
func (t Task) IsTombstone() bool { return t.IsDeleted }

// IsDirty implements Record.
func (t Task) IsDirty() bool { return t.NeedsSync }

// WithNeedsSync implements Record.
func (t Task) WithNeedsSync(v bool) Task {
	t.NeedsSync = v
	return t
}

// Validate checks the fields a user must supply.
func (t Task) Validate() error {
	switch {
	case t.ID == "":
		return invalid("task id is required")
	case t.ApplicationID == "":
		return invalid("task application id is required")
	case strings.TrimSpace(t.Title) == "":
		return invalid("task title is required")
	}
	return nil
}
