// Package domain defines the core entities of the job tracker.
//
// This package is the innermost layer of the hexagon. It defines the five
// synchronised record types and the metadata the sync engine relies on:
//
//   - Application: a job application, the root of every other record
//   - Task, Interview, Contact: children that reference an Application
//   - StatusHistory: an append-only audit log of status transitions
//   - SyncState, SyncError, SyncReport: sync bookkeeping
//
// Every record carries a NeedsSync flag. It is a local column only and is
// never serialised into a remote document.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
