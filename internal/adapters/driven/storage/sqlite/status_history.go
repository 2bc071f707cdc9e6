package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// statusHistoryStore implements driven.StatusHistoryStore. It wraps the
// table without embedding it so no update or delete is reachable.
type statusHistoryStore struct {
	table *table[domain.StatusHistory]
}

var _ driven.StatusHistoryStore = (*statusHistoryStore)(nil)

func newStatusHistoryTable(s *Store) *table[domain.StatusHistory] {
	return &table[domain.StatusHistory]{
		store: s,
		name:  tableStatusHistory,
		columns: []string{
			"id", "application_id", "from_status", "to_status", "changed_at_ms", "note",
		},
		orderBy: "changed_at_ms, id",
		args: func(h domain.StatusHistory) []any {
			var from any
			if h.FromStatus != nil {
				from = string(*h.FromStatus)
			}
			return []any{
				h.ID, h.ApplicationID, from, string(h.ToStatus), h.ChangedAtEpochMs,
				nullString(h.Note), h.NeedsSync,
			}
		},
		scan: func(row rowScanner) (domain.StatusHistory, error) {
			var h domain.StatusHistory
			var from, note sql.NullString
			var to string
			err := row.Scan(&h.ID, &h.ApplicationID, &from, &to, &h.ChangedAtEpochMs, &note, &h.NeedsSync)
			if err != nil {
				return domain.StatusHistory{}, err
			}
			if from.Valid {
				st := domain.ApplicationStatus(from.String)
				h.FromStatus = &st
			}
			h.ToStatus = domain.ApplicationStatus(to)
			h.Note = stringPtr(note)
			return h, nil
		},
	}
}

// Get retrieves an entry by ID.
func (s *statusHistoryStore) Get(ctx context.Context, id string) (*domain.StatusHistory, error) {
	return s.table.Get(ctx, id)
}

// PendingSync returns entries not yet pushed.
func (s *statusHistoryStore) PendingSync(ctx context.Context) ([]domain.StatusHistory, error) {
	return s.table.PendingSync(ctx)
}

// MarkSynced clears needs_sync on an entry.
func (s *statusHistoryStore) MarkSynced(ctx context.Context, id string) error {
	return s.table.MarkSynced(ctx, id)
}

// Insert adds an entry, leaving any existing entry with the same ID untouched.
func (s *statusHistoryStore) Insert(ctx context.Context, entry domain.StatusHistory) error {
	args := s.table.args(entry)
	_, err := s.table.store.db.ExecContext(ctx, `
		INSERT INTO status_history (id, application_id, from_status, to_status, changed_at_ms, note, needs_sync)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, args...)
	if err != nil {
		return fmt.Errorf("inserting status history %s: %w", entry.ID, err)
	}
	s.table.changed()
	return nil
}

// ObserveByApplication streams the timeline of one application.
func (s *statusHistoryStore) ObserveByApplication(
	ctx context.Context,
	applicationID string,
) (<-chan []domain.StatusHistory, error) {
	return s.table.observe(ctx, "application_id = ?", applicationID)
}
