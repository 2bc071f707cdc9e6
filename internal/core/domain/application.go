package domain

import "strings"

// Application is a single job application. It is the root record; every
// other entity references one through ApplicationID.
type Application struct {
	ID                 string            `json:"id"`
	Company            string            `json:"company"`
	Role               string            `json:"role"`
	Location           *string           `json:"location"`
	JobURL             *string           `json:"jobUrl"`
	Source             *string           `json:"source"`
	Status             ApplicationStatus `json:"status"`
	AppliedDateEpochMs int64             `json:"appliedDateEpochMs"`
	Notes              string            `json:"notes"`
	UpdatedAtEpochMs   int64             `json:"updatedAtEpochMs"`
	IsDeleted          bool              `json:"isDeleted"`

	// NeedsSync is true while the row has local changes not yet pushed.
	NeedsSync bool `json:"-"`
}

var _ Record[Application] = Application{}

// RecordID implements Record.
func (a Application) RecordID() string { return a.ID }

// RecordTimestamp implements Record.
func (a Application) RecordTimestamp() int64 { return a.UpdatedAtEpochMs }

// IsTombstone implements Record.
func (a Application) IsTombstone() bool { return a.IsDeleted }

// IsDirty implements Record.
func (a Application) IsDirty() bool { return a.NeedsSync }

// WithNeedsSync implements Record.
func (a Application) WithNeedsSync(v bool) Application {
	a.NeedsSync = v
	return a
}

// Validate checks the fields a user must supply.
func (a Application) Validate() error {
	switch {
	case a.ID == "":
		return invalid("application id is required")
	case strings.TrimSpace(a.Company) == "":
		return invalid("company is required")
	case strings.TrimSpace(a.Role) == "":
		return invalid("role is required")
	case !a.Status.IsValid():
		return invalid("unknown status " + a.Status.String())
	}
	return nil
}

// Matches reports whether keyword appears in the company or role, ignoring case.
func (a Application) Matches(keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(a.Company), k) ||
		strings.Contains(strings.ToLower(a.Role), k)
}
