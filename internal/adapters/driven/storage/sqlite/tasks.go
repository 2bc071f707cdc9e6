package sqlite

import (
	"database/sql"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// taskStore implements driven.TaskStore.
type taskStore struct {
	childTable[domain.Task]
}

var _ driven.TaskStore = (*taskStore)(nil)

func newTaskTable(s *Store) *table[domain.Task] {
	return &table[domain.Task]{
		store: s,
		name:  tableTasks,
		columns: []string{
			"id", "application_id", "title", "due_date_ms", "is_done",
			"completed_at_ms", "updated_at_ms", "is_deleted",
		},
		orderBy: "is_done, due_date_ms IS NULL, due_date_ms, updated_at_ms DESC",
		args: func(t domain.Task) []any {
			return []any{
				t.ID, t.ApplicationID, t.Title, nullInt(t.DueDateEpochMs), t.IsDone,
				nullInt(t.CompletedAtEpochMs), t.UpdatedAtEpochMs, t.IsDeleted, t.NeedsSync,
			}
		},
		scan: func(row rowScanner) (domain.Task, error) {
			var t domain.Task
			var due, completed sql.NullInt64
			err := row.Scan(&t.ID, &t.ApplicationID, &t.Title, &due, &t.IsDone,
				&completed, &t.UpdatedAtEpochMs, &t.IsDeleted, &t.NeedsSync)
			if err != nil {
				return domain.Task{}, err
			}
			t.DueDateEpochMs = intPtr(due)
			t.CompletedAtEpochMs = intPtr(completed)
			return t, nil
		},
	}
}
