package sqlite

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// interviewStore implements driven.InterviewStore.
type interviewStore struct {
	childTable[domain.Interview]
}

var _ driven.InterviewStore = (*interviewStore)(nil)

func newInterviewTable(s *Store) *table[domain.Interview] {
	return &table[domain.Interview]{
		store: s,
		name:  tableInterviews,
		columns: []string{
			"id", "application_id", "scheduled_date_ms", "interview_mode", "interviewer_name",
			"interviewer_email", "location", "meeting_link", "notes", "created_at_ms",
			"updated_at_ms", "is_deleted",
		},
		orderBy: "scheduled_date_ms, id",
		args: func(i domain.Interview) []any {
			return []any{
				i.ID, i.ApplicationID, i.ScheduledDateEpochMs, string(i.InterviewMode),
				nullString(i.InterviewerName), nullString(i.InterviewerEmail), nullString(i.Location),
				nullString(i.MeetingLink), nullString(i.Notes), i.CreatedAtEpochMs,
				i.UpdatedAtEpochMs, i.IsDeleted, i.NeedsSync,
			}
		},
		scan: func(row rowScanner) (domain.Interview, error) {
			var i domain.Interview
			var mode string
			var name, email, location, link, notes sql.NullString
			err := row.Scan(&i.ID, &i.ApplicationID, &i.ScheduledDateEpochMs, &mode, &name,
				&email, &location, &link, &notes, &i.CreatedAtEpochMs,
				&i.UpdatedAtEpochMs, &i.IsDeleted, &i.NeedsSync)
			if err != nil {
				return domain.Interview{}, err
			}
			i.InterviewMode = domain.InterviewMode(mode)
			i.InterviewerName = stringPtr(name)
			i.InterviewerEmail = stringPtr(email)
			i.Location = stringPtr(location)
			i.MeetingLink = stringPtr(link)
			i.Notes = stringPtr(notes)
			return i, nil
		},
	}
}

// ObserveUpcoming streams live interviews at or after fromEpochMs, soonest first.
func (s *interviewStore) ObserveUpcoming(ctx context.Context, fromEpochMs int64) (<-chan []domain.Interview, error) {
	return s.observe(ctx, "is_deleted = 0 AND scheduled_date_ms >= ?", fromEpochMs)
}
