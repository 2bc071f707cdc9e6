package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// Ensure RemoteStore implements the interface.
var _ driven.RemoteStore = (*RemoteStore)(nil)

// RemoteStore is an in-memory, multi-tenant implementation of
// driven.RemoteStore. Failures can be injected per collection for tests.
type RemoteStore struct {
	applications  *RemoteCollection[domain.Application]
	tasks         *RemoteCollection[domain.Task]
	interviews    *RemoteCollection[domain.Interview]
	contacts      *RemoteCollection[domain.Contact]
	statusHistory *RemoteCollection[domain.StatusHistory]
}

// NewRemoteStore creates an empty remote store.
func NewRemoteStore() *RemoteStore {
	return &RemoteStore{
		applications:  newRemoteCollection[domain.Application](domain.KindApplications),
		tasks:         newRemoteCollection[domain.Task](domain.KindTasks),
		interviews:    newRemoteCollection[domain.Interview](domain.KindInterviews),
		contacts:      newRemoteCollection[domain.Contact](domain.KindContacts),
		statusHistory: newRemoteCollection[domain.StatusHistory](domain.KindStatusHistory),
	}
}

// Applications returns the applications collection.
func (r *RemoteStore) Applications() driven.RemoteCollection[domain.Application] {
	return r.applications
}

// Tasks returns the tasks collection.
func (r *RemoteStore) Tasks() driven.RemoteCollection[domain.Task] {
	return r.tasks
}

// Interviews returns the interviews collection.
func (r *RemoteStore) Interviews() driven.RemoteCollection[domain.Interview] {
	return r.interviews
}

// Contacts returns the contacts collection.
func (r *RemoteStore) Contacts() driven.RemoteCollection[domain.Contact] {
	return r.contacts
}

// StatusHistory returns the status history collection.
func (r *RemoteStore) StatusHistory() driven.RemoteCollection[domain.StatusHistory] {
	return r.statusHistory
}

// ApplicationDocs returns the concrete applications collection for inspection.
func (r *RemoteStore) ApplicationDocs() *RemoteCollection[domain.Application] {
	return r.applications
}

// TaskDocs returns the concrete tasks collection for inspection.
func (r *RemoteStore) TaskDocs() *RemoteCollection[domain.Task] {
	return r.tasks
}

// InterviewDocs returns the concrete interviews collection for inspection.
func (r *RemoteStore) InterviewDocs() *RemoteCollection[domain.Interview] {
	return r.interviews
}

// ContactDocs returns the concrete contacts collection for inspection.
func (r *RemoteStore) ContactDocs() *RemoteCollection[domain.Contact] {
	return r.contacts
}

// HistoryDocs returns the concrete status history collection for inspection.
func (r *RemoteStore) HistoryDocs() *RemoteCollection[domain.StatusHistory] {
	return r.statusHistory
}

// Fail makes every call on the collection of kind return err until cleared
// with a nil error.
func (r *RemoteStore) Fail(kind domain.EntityKind, err error) {
	switch kind {
	case domain.KindApplications:
		r.applications.Fail(err)
	case domain.KindTasks:
		r.tasks.Fail(err)
	case domain.KindInterviews:
		r.interviews.Fail(err)
	case domain.KindContacts:
		r.contacts.Fail(err)
	case domain.KindStatusHistory:
		r.statusHistory.Fail(err)
	}
}

// RemoteCollection is one per-user document collection.
type RemoteCollection[T domain.Record[T]] struct {
	mu      sync.RWMutex
	kind    domain.EntityKind
	docs    map[string]map[string]T
	failErr error
	calls   int
}

var _ driven.RemoteCollection[domain.Task] = (*RemoteCollection[domain.Task])(nil)

func newRemoteCollection[T domain.Record[T]](kind domain.EntityKind) *RemoteCollection[T] {
	return &RemoteCollection[T]{
		kind: kind,
		docs: make(map[string]map[string]T),
	}
}

// Kind returns the collection name.
func (c *RemoteCollection[T]) Kind() domain.EntityKind {
	return c.kind
}

// Upsert replaces the document keyed by the record's ID. The local dirty
// flag is not part of the document.
func (c *RemoteCollection[T]) Upsert(ctx context.Context, userID string, record T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(ctx); err != nil {
		return err
	}
	if c.docs[userID] == nil {
		c.docs[userID] = make(map[string]T)
	}
	c.docs[userID][record.RecordID()] = record.WithNeedsSync(false)
	return nil
}

// Delete removes the document.
func (c *RemoteCollection[T]) Delete(ctx context.Context, userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(ctx); err != nil {
		return err
	}
	delete(c.docs[userID], id)
	return nil
}

// Since returns documents with a timestamp strictly greater than timestampMs,
// oldest first.
func (c *RemoteCollection[T]) Since(ctx context.Context, userID string, timestampMs int64) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(ctx); err != nil {
		return nil, err
	}

	result := []T{}
	for _, doc := range c.docs[userID] {
		if doc.RecordTimestamp() > timestampMs {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].RecordTimestamp() != result[j].RecordTimestamp() {
			return result[i].RecordTimestamp() < result[j].RecordTimestamp()
		}
		return result[i].RecordID() < result[j].RecordID()
	})
	return result, nil
}

// Put writes a document directly, bypassing failure injection. Tests use it
// to simulate writes from another device.
func (c *RemoteCollection[T]) Put(userID string, record T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.docs[userID] == nil {
		c.docs[userID] = make(map[string]T)
	}
	c.docs[userID][record.RecordID()] = record.WithNeedsSync(false)
}

// Doc returns a stored document.
func (c *RemoteCollection[T]) Doc(userID, id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[userID][id]
	return doc, ok
}

// Len returns the number of documents a user has in the collection.
func (c *RemoteCollection[T]) Len(userID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs[userID])
}

// Calls returns how many Upsert, Delete and Since calls were made.
func (c *RemoteCollection[T]) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

// Fail makes every subsequent call return err. A nil err clears it.
func (c *RemoteCollection[T]) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failErr = err
}

// check counts the call and returns an injected or context error.
// Caller must hold the write lock.
func (c *RemoteCollection[T]) check(ctx context.Context) error {
	c.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.failErr
}
