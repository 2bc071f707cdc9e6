package file

import (
	"path/filepath"
	"time"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// Config keys.
const (
	KeyDataDir         = "storage.data_dir"
	KeyRemoteDSN       = "remote.dsn"
	KeyRemoteRateLimit = "remote.rate_limit"
	KeyRemoteBurst     = "remote.burst"
	KeySyncInterval    = "sync.interval_seconds"
	KeyUserID          = "auth.user_id"
)

// LoadSettings reads settings from the config store, applying defaults for
// missing keys. The data directory defaults to "data" next to the config file.
func LoadSettings(cfg driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()

	s.DataDir = cfg.GetString(KeyDataDir)
	if s.DataDir == "" {
		s.DataDir = filepath.Join(filepath.Dir(cfg.Path()), "data")
	}

	s.RemoteDSN = cfg.GetString(KeyRemoteDSN)

	if v := cfg.GetFloat(KeyRemoteRateLimit); v > 0 {
		s.RemoteRateLimit = v
	}
	if v := cfg.GetInt(KeyRemoteBurst); v > 0 {
		s.RemoteBurst = v
	}
	if v := cfg.GetInt(KeySyncInterval); v > 0 {
		s.SyncInterval = time.Duration(v) * time.Second
	}

	s.UserID = cfg.GetString(KeyUserID)
	return s
}
