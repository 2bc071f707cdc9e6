// Package sqlite provides a unified SQLite-based implementation of the local
// store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements every local store
// interface through a single database connection:
//
//   - ApplicationStore, TaskStore, InterviewStore, ContactStore
//   - StatusHistoryStore: insert-only timeline
//   - CheckpointStore: per-user sync watermark
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and tracked in schema_migrations. After migrating, the
// store adds a missing needs_sync column to any entity table, defaulting
// existing rows to dirty.
//
// # Observation
//
// Every write notifies the table's subscribers, which re-run their query and
// publish the latest result.
//
// # Data Location
//
// By default, the database is stored at ~/.jobtrack/data/jobtrack.db
package sqlite
