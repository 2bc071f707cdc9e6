package domain

// Interview is a scheduled conversation for an application.
type Interview struct {
	ID                   string        `json:"id"`
	ApplicationID        string        `json:"applicationId"`
	ScheduledDateEpochMs int64         `json:"scheduledDateEpochMs"`
	InterviewMode        InterviewMode `json:"interviewMode"`
	InterviewerName      *string       `json:"interviewerName"`
	InterviewerEmail     *string       `json:"interviewerEmail"`
	Location             *string       `json:"location"`
	MeetingLink          *string       `json:"meetingLink"`
	Notes                *string       `json:"notes"`
	CreatedAtEpochMs     int64         `json:"createdAtEpochMs"`
	UpdatedAtEpochMs     int64         `json:"updatedAtEpochMs"`
	IsDeleted            bool          `json:"isDeleted"`

	NeedsSync bool `json:"-"`
}

var _ Record[Interview] = Interview{}

// RecordID implements Record.
func (i Interview) RecordID() string { return i.ID }

// RecordTimestamp implements Record.
func (i Interview) RecordTimestamp() int64 { return i.UpdatedAtEpochMs }

// IsTombstone implements Record.
func (i Interview) IsTombstone() bool { return i.IsDeleted }

// IsDirty implements Record.
func (i Interview) IsDirty() bool { return i.NeedsSync }

// WithNeedsSync implements Record.
func (i Interview) WithNeedsSync(v bool) Interview {
	i.NeedsSync = v
	return i
}

// Validate checks the fields a user must supply.
func (i Interview) Validate() error {
	switch {
	case i.ID == "":
		return invalid("interview id is required")
	case i.ApplicationID == "":
		return invalid("interview application id is required")
	case !i.InterviewMode.IsValid():
		return invalid("unknown interview mode " + i.InterviewMode.String())
	}
	return nil
}
