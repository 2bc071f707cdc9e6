// Package postgres implements the remote document store on PostgreSQL.
//
// Every collection lives in one documents table keyed by
// (user_id, collection, id). The body is the record's JSON document and
// updated_at_ms mirrors its sync timestamp so "since" queries use an index.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// Store is a Postgres-backed driven.RemoteStore.
type Store struct {
	pool *pgxpool.Pool
}

var _ driven.RemoteStore = (*Store)(nil)

// Open migrates the schema and connects a pool. The DSN must be a
// postgres:// URL. A nil engine uses DefaultEngine.
func Open(ctx context.Context, dsn string, engine MigrationEngine) (*Store, error) {
	if engine == nil {
		engine = DefaultEngine
	}
	if err := Migrate(engine, dsn); err != nil {
		return nil, fmt.Errorf("migrate remote schema: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Applications returns the applications collection.
func (s *Store) Applications() driven.RemoteCollection[domain.Application] {
	return &collection[domain.Application]{pool: s.pool, kind: domain.KindApplications}
}

// Tasks returns the tasks collection.
func (s *Store) Tasks() driven.RemoteCollection[domain.Task] {
	return &collection[domain.Task]{pool: s.pool, kind: domain.KindTasks}
}

// Interviews returns the interviews collection.
func (s *Store) Interviews() driven.RemoteCollection[domain.Interview] {
	return &collection[domain.Interview]{pool: s.pool, kind: domain.KindInterviews}
}

// Contacts returns the contacts collection.
func (s *Store) Contacts() driven.RemoteCollection[domain.Contact] {
	return &collection[domain.Contact]{pool: s.pool, kind: domain.KindContacts}
}

// StatusHistory returns the status history collection.
func (s *Store) StatusHistory() driven.RemoteCollection[domain.StatusHistory] {
	return &collection[domain.StatusHistory]{pool: s.pool, kind: domain.KindStatusHistory}
}

// Users returns a driven.UserStore on the same database.
func (s *Store) Users() driven.UserStore {
	return &userStore{pool: s.pool}
}
