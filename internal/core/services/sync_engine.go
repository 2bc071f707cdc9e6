package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/logger"
)

var syncLog = logger.Named("sync")

// SyncEngine pushes dirty local rows to the remote store and pulls remote
// changes back, one entity kind at a time in domain.SyncOrder.
//
// An engine is bound to one user and holds no state between calls apart
// from its dependencies; the watermark is supplied by the caller.
type SyncEngine struct {
	clock  driven.Clock
	userID string
	kinds  []kindSync
}

// kindSync runs both phases for one entity kind.
type kindSync interface {
	kind() domain.EntityKind
	push(ctx context.Context, userID string) (domain.KindReport, error)
	pull(ctx context.Context, userID string, sinceEpochMs int64) (domain.KindReport, error)
}

// NewSyncEngine creates an engine for userID.
func NewSyncEngine(
	stores driven.LocalStores,
	remote driven.RemoteStore,
	clock driven.Clock,
	userID string,
) *SyncEngine {
	return &SyncEngine{
		clock:  clock,
		userID: userID,
		kinds: []kindSync{
			newEntitySync[domain.Application](domain.KindApplications, stores.Applications, remote.Applications()),
			newEntitySync[domain.Task](domain.KindTasks, stores.Tasks, remote.Tasks()),
			newEntitySync[domain.Interview](domain.KindInterviews, stores.Interviews, remote.Interviews()),
			newEntitySync[domain.Contact](domain.KindContacts, stores.Contacts, remote.Contacts()),
			newHistorySync(stores.StatusHistory, remote.StatusHistory()),
		},
	}
}

// PerformFullSync pushes, then pulls changes newer than lastSyncEpochMs.
// The pull is skipped when the push fails.
func (e *SyncEngine) PerformFullSync(ctx context.Context, lastSyncEpochMs int64) (domain.SyncReport, error) {
	start := e.clock.NowEpochMs()

	report, err := e.PushLocalChanges(ctx)
	if err != nil {
		return report, err
	}
	pulled, err := e.PullRemoteUpdates(ctx, lastSyncEpochMs)
	report.Merge(pulled)
	if err != nil {
		return report, err
	}

	totals := report.Totals()
	syncLog.Info("full sync for %s took %dms: %d pushed, %d deleted, %d pulled",
		e.userID, e.clock.NowEpochMs()-start, totals.Pushed, totals.Deleted, totals.Pulled)
	return report, nil
}

// PushLocalChanges sends every dirty row to the remote store. Tombstones
// delete the remote document. The first remote failure aborts the phase;
// rows already pushed stay marked as synced.
func (e *SyncEngine) PushLocalChanges(ctx context.Context) (domain.SyncReport, error) {
	report := domain.NewSyncReport()
	if e.userID == "" {
		return report, domain.ErrAuthRequired
	}

	logger.Section("Push")
	for _, k := range e.kinds {
		r, err := k.push(ctx, e.userID)
		report.Add(k.kind(), r)
		if err != nil {
			return report, err
		}
		syncLog.Debug("pushed %s: %d upserted, %d deleted", k.kind(), r.Pushed, r.Deleted)
	}
	return report, nil
}

// PullRemoteUpdates applies remote documents changed after lastSyncEpochMs.
// A remote row replaces the local one only when it is strictly newer.
// The first remote failure aborts the phase; kinds already pulled are kept.
func (e *SyncEngine) PullRemoteUpdates(ctx context.Context, lastSyncEpochMs int64) (domain.SyncReport, error) {
	report := domain.NewSyncReport()
	if e.userID == "" {
		return report, domain.ErrAuthRequired
	}

	logger.Section("Pull")
	for _, k := range e.kinds {
		r, err := k.pull(ctx, e.userID, lastSyncEpochMs)
		report.Add(k.kind(), r)
		if err != nil {
			return report, err
		}
		syncLog.Debug("pulled %s: %d applied, %d skipped", k.kind(), r.Pulled, r.Skipped)
	}
	return report, nil
}

// entitySync moves one record type between a local table and its remote
// collection. appendOnly tables are never deleted remotely and never
// overwritten locally.
type entitySync[T domain.Record[T]] struct {
	k          domain.EntityKind
	local      driven.SyncStore[T]
	write      func(ctx context.Context, rec T) error
	remote     driven.RemoteCollection[T]
	appendOnly bool
}

func newEntitySync[T domain.Record[T]](
	kind domain.EntityKind,
	local driven.EntityStore[T],
	remote driven.RemoteCollection[T],
) *entitySync[T] {
	return &entitySync[T]{k: kind, local: local, write: local.Upsert, remote: remote}
}

func newHistorySync(
	local driven.StatusHistoryStore,
	remote driven.RemoteCollection[domain.StatusHistory],
) *entitySync[domain.StatusHistory] {
	return &entitySync[domain.StatusHistory]{
		k:          domain.KindStatusHistory,
		local:      local,
		write:      local.Insert,
		remote:     remote,
		appendOnly: true,
	}
}

func (s *entitySync[T]) kind() domain.EntityKind {
	return s.k
}

func (s *entitySync[T]) push(ctx context.Context, userID string) (domain.KindReport, error) {
	var report domain.KindReport

	pending, err := s.local.PendingSync(ctx)
	if err != nil {
		return report, fmt.Errorf("list pending %s: %w", s.k, err)
	}

	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		id := rec.RecordID()
		if rec.IsTombstone() && !s.appendOnly {
			err = s.remote.Delete(ctx, userID, id)
		} else {
			err = s.remote.Upsert(ctx, userID, rec)
		}
		if err != nil {
			return report, &domain.SyncError{Phase: domain.PhasePush, Kind: s.k, RecordID: id, Err: err}
		}

		if err := s.local.MarkSynced(ctx, id); err != nil {
			return report, fmt.Errorf("mark %s %s synced: %w", s.k, id, err)
		}
		if rec.IsTombstone() && !s.appendOnly {
			report.Deleted++
		} else {
			report.Pushed++
		}
	}
	return report, nil
}

func (s *entitySync[T]) pull(ctx context.Context, userID string, sinceEpochMs int64) (domain.KindReport, error) {
	var report domain.KindReport

	docs, err := s.remote.Since(ctx, userID, sinceEpochMs)
	if err != nil {
		return report, &domain.SyncError{Phase: domain.PhasePull, Kind: s.k, Err: err}
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		id := doc.RecordID()
		local, err := s.local.Get(ctx, id)
		missing := errors.Is(err, domain.ErrNotFound)
		if err != nil && !missing {
			return report, fmt.Errorf("get %s %s: %w", s.k, id, err)
		}

		switch {
		case missing:
		case s.appendOnly:
			// History entries are immutable, but an entry already on the
			// remote no longer needs pushing.
			if (*local).IsDirty() {
				if err := s.local.MarkSynced(ctx, id); err != nil {
					return report, fmt.Errorf("mark %s %s synced: %w", s.k, id, err)
				}
			}
			report.Skipped++
			continue
		case doc.RecordTimestamp() <= (*local).RecordTimestamp():
			report.Skipped++
			continue
		}

		if err := s.write(ctx, doc.WithNeedsSync(false)); err != nil {
			return report, fmt.Errorf("write %s %s: %w", s.k, id, err)
		}
		report.Pulled++
	}
	return report, nil
}
