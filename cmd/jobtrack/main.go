// Command jobtrack is an offline-first job application tracker.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/auth"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/config/file"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/remote/postgres"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/remote/ratelimit"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/system"
	"github.com/custodia-labs/jobtrack/internal/adapters/driving/cli"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/core/services"
	"github.com/custodia-labs/jobtrack/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(bootstrap); err != nil {
		os.Exit(1)
	}
}

// bootstrap opens the stores and wires the services for one run.
func bootstrap(ctx context.Context, configDir string) (cli.Services, func(), error) {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("load config: %w", err)
	}
	settings := file.LoadSettings(cfg)
	logger.Debug("config: %s", cfg.Path())

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("open local store: %w", err)
	}
	logger.Debug("local store: %s", store.Path())

	var (
		remote driven.RemoteStore
		users  driven.UserStore
	)
	closeRemote := func() {}
	if settings.HasRemote() {
		pg, err := postgres.Open(ctx, settings.RemoteDSN, postgres.DefaultEngine)
		if err != nil {
			_ = store.Close()
			return cli.Services{}, nil, fmt.Errorf("open remote store: %w", err)
		}
		remote, users, closeRemote = pg, pg.Users(), pg.Close
		logger.Debug("remote: postgres")
	} else {
		// Without a DSN everything stays in this process, which is enough to
		// try the commands offline.
		remote, users = memory.NewRemoteStore(), memory.NewUserStore()
		logger.Debug("remote: in-memory")
	}
	remote = ratelimit.New(remote, ratelimit.Config{
		RequestsPerSecond: settings.RemoteRateLimit,
		BurstSize:         settings.RemoteBurst,
	})

	clock := system.Clock{}
	ids := system.UUIDGenerator{}
	authProvider := auth.NewPasswordProvider(users, cfg, ids)

	local := store.LocalStores()
	apps := services.NewApplicationRepository(local.Applications, local.StatusHistory, clock, ids)
	tasks := services.NewTaskRepository(local.Tasks, clock)
	interviews := services.NewInterviewRepository(local.Interviews, clock)
	contacts := services.NewContactRepository(local.Contacts, clock)
	coordinator := services.NewSyncCoordinator(local, remote, authProvider, clock,
		services.WithCheckpointStore(store.CheckpointStore()))

	s := cli.Services{
		Tracker:       services.NewTracker(apps, tasks, interviews, contacts, clock, ids),
		Applications:  apps,
		Tasks:         tasks,
		Interviews:    interviews,
		Contacts:      contacts,
		StatusHistory: services.NewStatusHistoryRepository(local.StatusHistory),
		Auth:          authProvider,
		Coordinator:   coordinator,
		Scheduler:     services.NewScheduler(settings.SyncInterval, authProvider, coordinator),
	}

	cleanup := func() {
		coordinator.Stop()
		closeRemote()
		if err := store.Close(); err != nil {
			logger.Warn("close local store: %v", err)
		}
	}
	return s, cleanup, nil
}
