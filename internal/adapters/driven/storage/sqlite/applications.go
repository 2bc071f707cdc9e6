package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/observe"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// applicationStore implements driven.ApplicationStore.
type applicationStore struct {
	*table[domain.Application]
}

var _ driven.ApplicationStore = (*applicationStore)(nil)

func newApplicationTable(s *Store) *table[domain.Application] {
	return &table[domain.Application]{
		store: s,
		name:  tableApplications,
		columns: []string{
			"id", "company", "role", "location", "job_url", "source", "status",
			"applied_date_ms", "notes", "updated_at_ms", "is_deleted",
		},
		orderBy: "applied_date_ms DESC, id",
		args: func(a domain.Application) []any {
			return []any{
				a.ID, a.Company, a.Role, nullString(a.Location), nullString(a.JobURL),
				nullString(a.Source), string(a.Status), a.AppliedDateEpochMs, a.Notes,
				a.UpdatedAtEpochMs, a.IsDeleted, a.NeedsSync,
			}
		},
		scan: scanApplication,
	}
}

func scanApplication(row rowScanner) (domain.Application, error) {
	var a domain.Application
	var location, jobURL, source sql.NullString
	var status string
	err := row.Scan(&a.ID, &a.Company, &a.Role, &location, &jobURL, &source, &status,
		&a.AppliedDateEpochMs, &a.Notes, &a.UpdatedAtEpochMs, &a.IsDeleted, &a.NeedsSync)
	if err != nil {
		return domain.Application{}, err
	}

	a.Location = stringPtr(location)
	a.JobURL = stringPtr(jobURL)
	a.Source = stringPtr(source)
	a.Status = domain.ApplicationStatus(status)
	return a, nil
}

// ObserveByID streams one live application, or nil once it is gone.
func (s *applicationStore) ObserveByID(ctx context.Context, id string) (<-chan *domain.Application, error) {
	return observe.Query(ctx, s.store.notifier, s.name, func(ctx context.Context) (*domain.Application, error) {
		rows, err := s.list(ctx, "is_deleted = 0 AND id = ?", id)
		if err != nil || len(rows) == 0 {
			return nil, err
		}
		return &rows[0], nil
	})
}

// ObserveByStatus streams live applications with the given status.
func (s *applicationStore) ObserveByStatus(
	ctx context.Context,
	status domain.ApplicationStatus,
) (<-chan []domain.Application, error) {
	return s.observe(ctx, "is_deleted = 0 AND status = ?", string(status))
}

// ObserveSearch streams live applications whose company or role contains keyword.
func (s *applicationStore) ObserveSearch(ctx context.Context, keyword string) (<-chan []domain.Application, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	return s.observe(ctx,
		`is_deleted = 0 AND (LOWER(company) LIKE ? ESCAPE '\' OR LOWER(role) LIKE ? ESCAPE '\')`,
		pattern, pattern)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}
