package domain

import "strings"

// Contact is a person connected to an application.
type Contact struct {
	ID               string  `json:"id"`
	ApplicationID    string  `json:"applicationId"`
	ContactName      string  `json:"contactName"`
	ContactRole      *string `json:"contactRole"`
	EmailText        *string `json:"emailText"`
	LinkedInURL      *string `json:"linkedInUrl"`
	NotesText        *string `json:"notesText"`
	CreatedAtEpochMs int64   `json:"createdAtEpochMs"`
	UpdatedAtEpochMs int64   `json:"updatedAtEpochMs"`
	IsDeleted        bool    `json:"isDeleted"`

	NeedsSync bool `json:"-"`
}

var _ Record[Contact] = Contact{}

// RecordID implements Record.
func (c Contact) RecordID() string { return c.ID }

// RecordTimestamp implements Record.
func (c Contact) RecordTimestamp() int64 { return c.UpdatedAtEpochMs }

// IsTombstone implements Record.
func (c Contact) IsTombstone() bool { return c.IsDeleted }

// IsDirty implements Record.
func (c Contact) IsDirty() bool { return c.NeedsSync }

// WithNeedsSync implements Record.
func (c Contact) WithNeedsSync(v bool) Contact {
	c.NeedsSync = v
	return c
}

// Validate checks the fields a user must supply.
func (c Contact) Validate() error {
	switch {
	case c.ID == "":
		return invalid("contact id is required")
	case c.ApplicationID == "":
		return invalid("contact application id is required")
	case strings.TrimSpace(c.ContactName) == "":
		return invalid("contact name is required")
	}
	return nil
}
