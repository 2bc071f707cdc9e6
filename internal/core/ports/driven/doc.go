// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ApplicationStore, TaskStore, InterviewStore, ContactStore,
//     StatusHistoryStore: local tables with observable queries
//   - RemoteStore: per-user document collections
//   - AuthProvider: signed-in user and its state stream
//   - Clock, IDGenerator: time and identifiers
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CheckpointStore: persisted sync watermark. Without it the watermark
//     lives in memory and a restart re-pulls everything.
//   - UserStore: only the password auth provider needs it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
