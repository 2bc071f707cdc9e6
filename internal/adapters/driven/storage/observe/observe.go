// Package observe turns point-in-time queries into live streams.
//
// Stores call Notifier.Notify after every committed write to a table.
// Query streams subscribed to that table re-run their query and publish
// the result. Delivery keeps only the latest snapshot, so a slow consumer
// never blocks a writer.
package observe

import (
	"context"
	"sync"

	"github.com/custodia-labs/jobtrack/internal/logger"
)

var log = logger.Named("observe")

// Notifier fans out change signals per table.
type Notifier struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers for change signals on table. The returned function
// unregisters; it is safe to call more than once.
func (n *Notifier) Subscribe(table string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	if n.subs[table] == nil {
		n.subs[table] = make(map[chan struct{}]struct{})
	}
	n.subs[table][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[table], ch)
			n.mu.Unlock()
		})
	}
}

// Notify signals every subscriber of table. Pending signals coalesce.
func (n *Notifier) Notify(table string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions on table.
func (n *Notifier) Subscribers(table string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[table])
}

// Query runs query once and then after every change to table, publishing
// each result on the returned channel until ctx is done. An error from the
// first run is returned directly; later errors are logged and skipped.
func Query[R any](ctx context.Context, n *Notifier, table string, query func(context.Context) (R, error)) (<-chan R, error) {
	signal, unsubscribe := n.Subscribe(table)

	first, err := query(ctx)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	out := make(chan R, 1)
	out <- first

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}

			result, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("re-query %s failed: %v", table, err)
				continue
			}

			// Replace an unread snapshot with the newer one.
			select {
			case <-out:
			default:
			}
			out <- result
		}
	}()

	return out, nil
}
