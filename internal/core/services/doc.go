// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The sync engine and coordinator live here too: they only talk to
// the local stores, the remote store and the auth provider through ports.
package services
