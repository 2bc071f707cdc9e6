package sqlite

import (
	"database/sql"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// contactStore implements driven.ContactStore.
type contactStore struct {
	childTable[domain.Contact]
}

var _ driven.ContactStore = (*contactStore)(nil)

func newContactTable(s *Store) *table[domain.Contact] {
	return &table[domain.Contact]{
		store: s,
		name:  tableContacts,
		columns: []string{
			"id", "application_id", "contact_name", "contact_role", "email_text",
			"linkedin_url", "notes_text", "created_at_ms", "updated_at_ms", "is_deleted",
		},
		orderBy: "contact_name COLLATE NOCASE, id",
		args: func(c domain.Contact) []any {
			return []any{
				c.ID, c.ApplicationID, c.ContactName, nullString(c.ContactRole),
				nullString(c.EmailText), nullString(c.LinkedInURL), nullString(c.NotesText),
				c.CreatedAtEpochMs, c.UpdatedAtEpochMs, c.IsDeleted, c.NeedsSync,
			}
		},
		scan: func(row rowScanner) (domain.Contact, error) {
			var c domain.Contact
			var role, email, linkedIn, notes sql.NullString
			err := row.Scan(&c.ID, &c.ApplicationID, &c.ContactName, &role, &email,
				&linkedIn, &notes, &c.CreatedAtEpochMs, &c.UpdatedAtEpochMs, &c.IsDeleted, &c.NeedsSync)
			if err != nil {
				return domain.Contact{}, err
			}
			c.ContactRole = stringPtr(role)
			c.EmailText = stringPtr(email)
			c.LinkedInURL = stringPtr(linkedIn)
			c.NotesText = stringPtr(notes)
			return c, nil
		},
	}
}
