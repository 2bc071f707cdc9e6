package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/observe"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/logger"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "jobtrack.db"

var log = logger.Named("sqlite")

// Table names.
const (
	tableApplications  = "applications"
	tableTasks         = "tasks"
	tableInterviews    = "interviews"
	tableContacts      = "contacts"
	tableStatusHistory = "status_history"
)

// syncedTables are the tables carrying a needs_sync column.
var syncedTables = []string{
	tableApplications,
	tableTasks,
	tableInterviews,
	tableContacts,
	tableStatusHistory,
}

// Store is a unified SQLite-based storage that provides access to
// all local store interfaces through wrapper types.
type Store struct {
	db       *sql.DB
	path     string
	notifier *observe.Notifier
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.jobtrack/data/jobtrack.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".jobtrack", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode so observers can read while a sync writes
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		notifier: observe.NewNotifier(),
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.repairNeedsSync(); err != nil {
		db.Close()
		return nil, fmt.Errorf("repairing needs_sync columns: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LocalStores returns all five entity stores backed by this store.
func (s *Store) LocalStores() driven.LocalStores {
	return driven.LocalStores{
		Applications:  s.ApplicationStore(),
		Tasks:         s.TaskStore(),
		Interviews:    s.InterviewStore(),
		Contacts:      s.ContactStore(),
		StatusHistory: s.StatusHistoryStore(),
	}
}

// ApplicationStore returns an ApplicationStore backed by this store.
func (s *Store) ApplicationStore() driven.ApplicationStore {
	return &applicationStore{table: newApplicationTable(s)}
}

// TaskStore returns a TaskStore backed by this store.
func (s *Store) TaskStore() driven.TaskStore {
	return &taskStore{childTable: childTable[domain.Task]{table: newTaskTable(s)}}
}

// InterviewStore returns an InterviewStore backed by this store.
func (s *Store) InterviewStore() driven.InterviewStore {
	return &interviewStore{childTable: childTable[domain.Interview]{table: newInterviewTable(s)}}
}

// ContactStore returns a ContactStore backed by this store.
func (s *Store) ContactStore() driven.ContactStore {
	return &contactStore{childTable: childTable[domain.Contact]{table: newContactTable(s)}}
}

// StatusHistoryStore returns a StatusHistoryStore backed by this store.
func (s *Store) StatusHistoryStore() driven.StatusHistoryStore {
	return &statusHistoryStore{table: newStatusHistoryTable(s)}
}

// CheckpointStore returns a CheckpointStore backed by this store.
func (s *Store) CheckpointStore() driven.CheckpointStore {
	return &checkpointStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		log.Debug("applied migration %s", name)
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// repairNeedsSync adds the needs_sync column to any entity table created
// before it existed. Existing rows default to 1 so they are pushed.
func (s *Store) repairNeedsSync() error {
	for _, table := range syncedTables {
		has, err := s.hasColumn(table, "needs_sync")
		if err != nil {
			return err
		}
		if !has {
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN needs_sync INTEGER NOT NULL DEFAULT 1", table)
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("adding needs_sync to %s: %w", table, err)
			}
			log.Info("added needs_sync column to %s", table)
		}

		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_needs_sync ON %s(needs_sync)", table, table)
		if _, err := s.db.Exec(idx); err != nil {
			return fmt.Errorf("indexing needs_sync on %s: %w", table, err)
		}
	}
	return nil
}

// hasColumn reports whether table has the named column.
func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// nullString converts an optional string to a driver value.
func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// nullInt converts an optional integer to a driver value.
func nullInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func intPtr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
