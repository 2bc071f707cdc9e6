package domain

import "time"

// Default setting values.
const (
	DefaultRemoteRateLimit = 20
	DefaultRemoteBurst     = 5
)

// Settings holds user-configurable options loaded from the config file.
type Settings struct {
	// DataDir holds the local database.
	DataDir string

	// RemoteDSN is the Postgres connection string. Empty selects the
	// in-memory remote.
	RemoteDSN string

	// RemoteRateLimit is the maximum remote requests per second.
	RemoteRateLimit float64

	// RemoteBurst is the limiter burst size.
	RemoteBurst int

	// SyncInterval is the background sync period. Zero disables it.
	SyncInterval time.Duration

	// UserID is the persisted session.
	UserID string
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		RemoteRateLimit: DefaultRemoteRateLimit,
		RemoteBurst:     DefaultRemoteBurst,
	}
}

// HasRemote returns true if a Postgres remote is configured.
func (s Settings) HasRemote() bool {
	return s.RemoteDSN != ""
}
