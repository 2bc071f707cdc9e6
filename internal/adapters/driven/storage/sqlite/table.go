package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/observe"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table maps one record type onto one SQL table. Columns list every column
// except needs_sync, with id first; args returns values in the same order
// followed by needs_sync, and scan reads them back in that order.
type table[T domain.Record[T]] struct {
	store   *Store
	name    string
	columns []string
	orderBy string
	args    func(T) []any
	scan    func(rowScanner) (T, error)
}

func (t *table[T]) selectSQL() string {
	return fmt.Sprintf("SELECT %s, needs_sync FROM %s", strings.Join(t.columns, ", "), t.name)
}

// Get retrieves a row by ID, tombstones included.
func (t *table[T]) Get(ctx context.Context, id string) (*T, error) {
	row := t.store.db.QueryRowContext(ctx, t.selectSQL()+" WHERE id = ?", id)

	rec, err := t.scan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning %s: %w", t.name, err)
	}
	return &rec, nil
}

// PendingSync returns every dirty row.
func (t *table[T]) PendingSync(ctx context.Context) ([]T, error) {
	return t.list(ctx, "needs_sync = 1")
}

// MarkSynced clears needs_sync.
func (t *table[T]) MarkSynced(ctx context.Context, id string) error {
	_, err := t.store.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET needs_sync = 0 WHERE id = ?", t.name), id)
	if err != nil {
		return fmt.Errorf("marking %s %s synced: %w", t.name, id, err)
	}
	t.changed()
	return nil
}

// Upsert inserts or replaces the full row.
func (t *table[T]) Upsert(ctx context.Context, rec T) error {
	cols := append(append([]string{}, t.columns...), "needs_sync")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	updates := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		t.name, strings.Join(cols, ", "), placeholders, strings.Join(updates, ", "))

	if _, err := t.store.db.ExecContext(ctx, stmt, t.args(rec)...); err != nil {
		return fmt.Errorf("saving %s %s: %w", t.name, rec.RecordID(), err)
	}
	t.changed()
	return nil
}

// SoftDelete tombstones a row and marks it dirty.
func (t *table[T]) SoftDelete(ctx context.Context, id string, atEpochMs int64) error {
	res, err := t.store.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE %s SET is_deleted = 1, updated_at_ms = ?, needs_sync = 1 WHERE id = ?", t.name),
		atEpochMs, id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", t.name, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", t.name, id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	t.changed()
	return nil
}

// ObserveAll streams every live row.
func (t *table[T]) ObserveAll(ctx context.Context) (<-chan []T, error) {
	return t.observe(ctx, "is_deleted = 0")
}

func (t *table[T]) observe(ctx context.Context, where string, args ...any) (<-chan []T, error) {
	return observe.Query(ctx, t.store.notifier, t.name, func(ctx context.Context) ([]T, error) {
		return t.list(ctx, where, args...)
	})
}

func (t *table[T]) list(ctx context.Context, where string, args ...any) ([]T, error) {
	query := t.selectSQL()
	if where != "" {
		query += " WHERE " + where
	}
	if t.orderBy != "" {
		query += " ORDER BY " + t.orderBy
	}

	rows, err := t.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.name, err)
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.name, err)
	}
	return result, nil
}

func (t *table[T]) changed() {
	t.store.notifier.Notify(t.name)
}

// childTable adds the per-application query to tables with an
// application_id column.
type childTable[T domain.Record[T]] struct {
	*table[T]
}

// ObserveByApplication streams the live rows of one application.
func (c childTable[T]) ObserveByApplication(ctx context.Context, applicationID string) (<-chan []T, error) {
	return c.observe(ctx, "is_deleted = 0 AND application_id = ?", applicationID)
}
