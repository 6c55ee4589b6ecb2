package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sosubot/ppcalc/mods"
)

// counter tracks compute calls and returns configured results
type counter struct {
	calls atomic.Int64
	value string
	err   error
}

func (c *counter) compute(_ context.Context) (string, error) {
	c.calls.Add(1)
	return c.value, c.err
}

func TestTable_Hit(t *testing.T) {
	table := NewTable[string](KindDifficulty, DefaultPolicy(), nil)
	c := &counter{value: "attrs"}
	ctx := context.Background()
	key := Key{BeatmapID: 1}

	// First call - should compute
	v, err := table.GetOrCompute(ctx, key, c.compute)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if v != "attrs" {
		t.Errorf("unexpected value: %s", v)
	}

	// Second call - should return stored value
	v, err = table.GetOrCompute(ctx, key, c.compute)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if v != "attrs" {
		t.Errorf("unexpected stored value: %s", v)
	}
	if got := c.calls.Load(); got != 1 {
		t.Errorf("expected 1 compute, got %d", got)
	}

	stats := table.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, 1 entry", stats)
	}
}

func TestTable_DistinctKeys(t *testing.T) {
	table := NewTable[string](KindPlayable, DefaultPolicy(), nil)
	c := &counter{value: "v"}
	ctx := context.Background()

	keys := []Key{
		{BeatmapID: 1},
		{BeatmapID: 1, ObjectLimit: Limit(10)},
		{BeatmapID: 1, Mods: mods.Of("HR")},
		{BeatmapID: 2},
	}
	for _, k := range keys {
		if _, err := table.GetOrCompute(ctx, k, c.compute); err != nil {
			t.Fatalf("GetOrCompute(%v) error = %v", k, err)
		}
	}
	if got := c.calls.Load(); got != int64(len(keys)) {
		t.Errorf("expected %d computes, got %d", len(keys), got)
	}
	if table.Len() != len(keys) {
		t.Errorf("Len() = %d, want %d", table.Len(), len(keys))
	}
}

func TestTable_NonDeterministicModsBypass(t *testing.T) {
	table := NewTable[string](KindPlayable, DefaultPolicy(), nil)
	c := &counter{value: "random"}
	ctx := context.Background()
	key := Key{BeatmapID: 1, Mods: mods.Of("RD", "HD")}

	for i := 0; i < 3; i++ {
		if _, err := table.GetOrCompute(ctx, key, c.compute); err != nil {
			t.Fatalf("GetOrCompute() error = %v", err)
		}
	}
	if got := c.calls.Load(); got != 3 {
		t.Errorf("expected every call to compute, got %d computes", got)
	}
	if table.Len() != 0 {
		t.Errorf("non-deterministic artifact was stored")
	}
	if table.Set(key, "x") {
		t.Error("Set() stored a non-deterministic key")
	}
	if table.Stats().Bypass != 3 {
		t.Errorf("Bypass = %d, want 3", table.Stats().Bypass)
	}
}

func TestTable_ErrorsNotStored(t *testing.T) {
	table := NewTable[string](KindDifficulty, DefaultPolicy(), nil)
	c := &counter{err: errors.New("boom")}
	ctx := context.Background()
	key := Key{BeatmapID: 1}

	for i := 0; i < 2; i++ {
		if _, err := table.GetOrCompute(ctx, key, c.compute); err == nil {
			t.Fatal("expected error")
		}
	}
	if got := c.calls.Load(); got != 2 {
		t.Errorf("expected 2 computes, got %d", got)
	}
	if table.Len() != 0 {
		t.Error("error result was stored")
	}
}

func TestTable_NoMemoPolicy(t *testing.T) {
	table := NewTable[string](KindBeatmap, NoMemoPolicy(), nil)
	c := &counter{value: "v"}
	ctx := context.Background()

	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 1}, c.compute)
	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 1}, c.compute)
	if got := c.calls.Load(); got != 2 {
		t.Errorf("expected 2 computes with memoization disabled, got %d", got)
	}
}

func TestTable_CustomSkipRule(t *testing.T) {
	skipLimited := func(k Key) bool { return k.ObjectLimit != nil }
	table := NewTable[string](KindBeatmap, DefaultPolicy(), skipLimited)
	c := &counter{value: "v"}
	ctx := context.Background()

	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 1, ObjectLimit: Limit(5)}, c.compute)
	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 1, ObjectLimit: Limit(5)}, c.compute)
	if got := c.calls.Load(); got != 2 {
		t.Errorf("expected 2 computes for skipped key, got %d", got)
	}

	// Custom rule replaces the default, so RD is stored.
	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 1, Mods: mods.Of("RD")}, c.compute)
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestTable_UnencodableKeyComputes(t *testing.T) {
	table := NewTable[string](KindDifficulty, DefaultPolicy(), nil)
	c := &counter{value: "v"}
	key := Key{BeatmapID: 1, Mods: mods.Set{{Acronym: "DA", Settings: map[string]any{"x": func() {}}}}}

	v, err := table.GetOrCompute(context.Background(), key, c.compute)
	if err != nil || v != "v" {
		t.Fatalf("GetOrCompute() = %q, %v", v, err)
	}
	if table.Len() != 0 {
		t.Error("value stored under an unencodable key")
	}
}

func TestTable_ResetAndDelete(t *testing.T) {
	table := NewTable[string](KindDifficulty, DefaultPolicy(), nil)
	table.Set(Key{BeatmapID: 1}, "a")
	table.Set(Key{BeatmapID: 2}, "b")

	table.Delete(Key{BeatmapID: 1})
	if _, ok := table.Get(Key{BeatmapID: 1}); ok {
		t.Error("Delete() left the entry")
	}
	table.Delete(Key{BeatmapID: 1})

	table.Reset()
	if table.Len() != 0 {
		t.Errorf("Len() after Reset() = %d", table.Len())
	}
	if s := table.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Errorf("Stats() after Reset() = %+v", s)
	}
}

func TestTable_OnEvent(t *testing.T) {
	table := NewTable[string](KindPlayable, DefaultPolicy(), nil)
	var mu sync.Mutex
	var events []Event
	table.OnEvent(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	c := &counter{value: "v"}
	ctx := context.Background()
	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 3}, c.compute)
	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 3}, c.compute)
	_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 3, Mods: mods.Of("RD")}, c.compute)

	want := []Outcome{OutcomeMiss, OutcomeHit, OutcomeBypass}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Outcome != want[i] || e.Kind != KindPlayable {
			t.Errorf("event %d = %+v, want outcome %s", i, e, want[i])
		}
	}
}

func TestTable_ConcurrentMissesWithoutSingleFlight(t *testing.T) {
	table := NewTable[string](KindDifficulty, DefaultPolicy(), nil)
	ctx := context.Background()
	release := make(chan struct{})
	var calls atomic.Int64

	compute := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = table.GetOrCompute(ctx, Key{BeatmapID: 9}, compute)
		}()
	}

	// All four must be computing before any returns.
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 4 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 4 {
		t.Errorf("expected duplicate computes to be tolerated, got %d", got)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestTable_SingleFlight(t *testing.T) {
	table := NewTable[string](KindDifficulty, Policy{Enabled: true, SingleFlight: true}, nil)
	ctx := context.Background()
	release := make(chan struct{})
	var calls atomic.Int64

	compute := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = table.GetOrCompute(ctx, Key{BeatmapID: 9}, compute)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 compute with single flight, got %d", got)
	}
	for i, r := range results {
		if r != "v" {
			t.Errorf("result %d = %q, want v", i, r)
		}
	}
}

func TestTable_SingleFlightHonoursCallerCancellation(t *testing.T) {
	table := NewTable[string](KindDifficulty, Policy{Enabled: true, SingleFlight: true}, nil)
	release := make(chan struct{})
	defer close(release)

	compute := func(context.Context) (string, error) {
		<-release
		return "v", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := table.GetOrCompute(ctx, Key{BeatmapID: 9}, compute)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTable_SingleFlightKeepsCallerDeadline(t *testing.T) {
	table := NewTable[string](KindDifficulty, Policy{Enabled: true, SingleFlight: true}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	computeErr := make(chan error, 1)
	compute := func(ctx context.Context) (string, error) {
		<-ctx.Done()
		computeErr <- ctx.Err()
		return "", ctx.Err()
	}

	if _, err := table.GetOrCompute(ctx, Key{BeatmapID: 9}, compute); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GetOrCompute() error = %v, want DeadlineExceeded", err)
	}

	select {
	case err := <-computeErr:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("compute context error = %v, want DeadlineExceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("shared compute outlived the caller deadline")
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after a timed-out compute", table.Len())
	}
}
