package beatmapcache

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// lockTable hands out one exclusive section per beatmap id. Entries are
// reference counted and dropped when no caller holds or waits on them.
type lockTable struct {
	mu      sync.Mutex
	entries map[int]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[int]*lockEntry)}
}

// acquire waits for the section of id. The wait is abandoned when ctx is
// done. The returned release func must be called exactly once.
func (t *lockTable) acquire(ctx context.Context, id int) (func(), error) {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		t.entries[id] = e
	}
	e.refs++
	t.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		t.unref(id, e)
		return nil, err
	}

	return func() {
		e.sem.Release(1)
		t.unref(id, e)
	}, nil
}

func (t *lockTable) unref(id int, e *lockEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(t.entries, id)
	}
}

func (t *lockTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
