package memo

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Kind names the artifact a table holds.
type Kind string

// Artifact kinds memoized by the calculator.
const (
	KindBeatmap    Kind = "beatmap"
	KindPlayable   Kind = "playable"
	KindDifficulty Kind = "difficulty"
)

// Outcome classifies a lookup.
type Outcome string

// Lookup outcomes reported to event hooks.
const (
	OutcomeHit    Outcome = "hit"
	OutcomeMiss   Outcome = "miss"
	OutcomeBypass Outcome = "bypass"
)

// Event describes a single lookup.
type Event struct {
	Kind    Kind
	Key     string
	Outcome Outcome
}

// Stats counts lookups since the table was created or last reset.
type Stats struct {
	Hits    int64
	Misses  int64
	Bypass  int64
	Entries int
}

// Sized is the type-erased view of a Table used for reporting.
type Sized interface {
	Kind() Kind
	Len() int
}

// ComputeFunc produces a value on a miss.
type ComputeFunc[V any] func(ctx context.Context) (V, error)

// Table is an in-memory memo table for one artifact kind.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: compute errors are returned and never stored.
// - Ownership: stored values are shared between callers and must be
// treated as read-only.
type Table[V any] struct {
	kind     Kind
	policy   Policy
	skipRule SkipRule

	mu      sync.RWMutex
	entries map[string]V

	group singleflight.Group

	hits, misses, bypass atomic.Int64

	hookMu  sync.RWMutex
	onEvent func(Event)
}

// NewTable creates a table for kind.
// If skipRule is nil, DefaultSkipRule is used.
func NewTable[V any](kind Kind, policy Policy, skipRule SkipRule) *Table[V] {
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &Table[V]{
		kind:     kind,
		policy:   policy,
		skipRule: skipRule,
		entries:  make(map[string]V),
	}
}

// Kind returns the artifact kind of the table.
func (t *Table[V]) Kind() Kind {
	return t.kind
}

// OnEvent registers fn to observe every lookup. Passing nil removes it.
func (t *Table[V]) OnEvent(fn func(Event)) {
	t.hookMu.Lock()
	t.onEvent = fn
	t.hookMu.Unlock()
}

func (t *Table[V]) emit(key string, outcome Outcome) {
	switch outcome {
	case OutcomeHit:
		t.hits.Add(1)
	case OutcomeMiss:
		t.misses.Add(1)
	case OutcomeBypass:
		t.bypass.Add(1)
	}

	t.hookMu.RLock()
	fn := t.onEvent
	t.hookMu.RUnlock()
	if fn != nil {
		fn(Event{Kind: t.kind, Key: key, Outcome: outcome})
	}
}

// GetOrCompute returns the stored value for key, or computes, stores and
// returns it. Keys matching the skip rule, keys that cannot be encoded,
// and tables with memoization disabled always compute.
func (t *Table[V]) GetOrCompute(ctx context.Context, key Key, compute ComputeFunc[V]) (V, error) {
	if !t.policy.Enabled || t.skipRule(key) {
		t.emit("", OutcomeBypass)
		return compute(ctx)
	}

	k, err := key.String()
	if err != nil {
		// Key generation failed - compute without memoizing
		t.emit("", OutcomeBypass)
		return compute(ctx)
	}

	if v, ok := t.lookup(k); ok {
		t.emit(k, OutcomeHit)
		return v, nil
	}
	t.emit(k, OutcomeMiss)

	if !t.policy.SingleFlight {
		return t.computeAndStore(ctx, k, compute)
	}

	ch := t.group.DoChan(k, func() (any, error) {
		// Another flight may have stored the value since our lookup.
		if v, ok := t.lookup(k); ok {
			return v, nil
		}
		flight, cancel := detach(ctx)
		defer cancel()
		return t.computeAndStore(flight, k, compute)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// detach returns a context that outlives the cancellation of ctx but keeps
// its deadline.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	flight := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(flight, deadline)
	}
	return flight, func() {}
}

func (t *Table[V]) computeAndStore(ctx context.Context, k string, compute ComputeFunc[V]) (V, error) {
	v, err := compute(ctx)
	if err != nil {
		// Don't store errors
		return v, err
	}
	t.mu.Lock()
	t.entries[k] = v
	t.mu.Unlock()
	return v, nil
}

func (t *Table[V]) lookup(k string) (V, bool) {
	t.mu.RLock()
	v, ok := t.entries[k]
	t.mu.RUnlock()
	return v, ok
}

// Get returns the stored value for key without computing.
func (t *Table[V]) Get(key Key) (V, bool) {
	k, err := key.String()
	if err != nil {
		var zero V
		return zero, false
	}
	return t.lookup(k)
}

// Set stores v under key, subject to the policy and skip rule. It reports
// whether the value was stored.
func (t *Table[V]) Set(key Key, v V) bool {
	if !t.policy.Enabled || t.skipRule(key) {
		return false
	}
	k, err := key.String()
	if err != nil {
		return false
	}
	t.mu.Lock()
	t.entries[k] = v
	t.mu.Unlock()
	return true
}

// Delete removes key. Idempotent - no error on miss.
func (t *Table[V]) Delete(key Key) {
	k, err := key.String()
	if err != nil {
		return
	}
	t.mu.Lock()
	delete(t.entries, k)
	t.mu.Unlock()
}

// Len returns the number of stored values.
func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Reset drops every stored value and zeroes the counters.
func (t *Table[V]) Reset() {
	t.mu.Lock()
	t.entries = make(map[string]V)
	t.mu.Unlock()
	t.hits.Store(0)
	t.misses.Store(0)
	t.bypass.Store(0)
}

// Stats returns the current counters.
func (t *Table[V]) Stats() Stats {
	return Stats{
		Hits:    t.hits.Load(),
		Misses:  t.misses.Load(),
		Bypass:  t.bypass.Load(),
		Entries: t.Len(),
	}
}
