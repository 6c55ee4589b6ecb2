package calc

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/observe"
	"github.com/sosubot/ppcalc/scoring"
)

// fakeSource serves a fixed body. When block is set it waits for it or
// for the context.
type fakeSource struct {
	calls atomic.Int32
	data  []byte
	err   error
	block chan struct{}
}

func (f *fakeSource) Fetch(ctx context.Context, id int) ([]byte, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.data, f.err
}

// circleDecoder decodes one circle per byte.
var circleDecoder = beatmap.DecoderFunc(func(data []byte) (*beatmap.Beatmap, error) {
	return beatmap.New(beatmap.Repeat(beatmap.NewCircle(), len(data))...), nil
})

// sliderDecoder decodes one tickless slider per 's' byte and one circle
// per other byte.
var sliderDecoder = beatmap.DecoderFunc(func(data []byte) (*beatmap.Beatmap, error) {
	objs := make([]beatmap.HitObject, 0, len(data))
	for _, c := range data {
		if c == 's' {
			objs = append(objs, beatmap.NewSlider(0, 0))
		} else {
			objs = append(objs, beatmap.NewCircle())
		}
	}
	return beatmap.New(objs...), nil
})

type fakeDifficulty struct {
	calls   atomic.Int32
	err     error
	objects atomic.Int32
}

func (f *fakeDifficulty) Difficulty(_ context.Context, _ scoring.Ruleset, b *beatmap.Beatmap, m mods.Set) (Attributes, error) {
	f.calls.Add(1)
	f.objects.Store(int32(b.Len()))
	if f.err != nil {
		return Attributes{}, f.err
	}
	stars := 5.0
	if m.Has("DT") {
		stars = 7.0
	}
	return Attributes{StarRating: stars, MaxCombo: b.MaxCombo()}, nil
}

type fakePerformance struct {
	mu   sync.Mutex
	last Score
}

func (f *fakePerformance) Performance(_ context.Context, score Score, attrs Attributes) (float64, error) {
	f.mu.Lock()
	f.last = score
	f.mu.Unlock()
	return attrs.StarRating * score.Accuracy * 100, nil
}

func (f *fakePerformance) lastScore() Score {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type fakes struct {
	source      *fakeSource
	difficulty  *fakeDifficulty
	performance *fakePerformance
}

func newTestCalculator(t *testing.T, body string, decoder beatmap.Decoder, opts ...Option) (*Calculator, *fakes) {
	t.Helper()
	f := &fakes{
		source:      &fakeSource{data: []byte(body)},
		difficulty:  &fakeDifficulty{},
		performance: &fakePerformance{},
	}
	c, err := New(Config{}, Collaborators{
		Source:      f.source,
		Decoder:     decoder,
		Difficulty:  f.difficulty,
		Performance: f.performance,
	}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, f
}

func circles(n int) string {
	return string(bytes.Repeat([]byte{'o'}, n))
}

func ptr[T any](v T) *T {
	return &v
}

type recordingMetrics struct {
	mu     sync.Mutex
	events []string
	stages []string
}

func (m *recordingMetrics) RecordStage(_ context.Context, meta observe.StageMeta, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.stages = append(m.stages, meta.Stage+"/"+status)
}

func (m *recordingMetrics) RecordCacheEvent(_ context.Context, layer, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, layer+"/"+outcome)
}

func (m *recordingMetrics) snapshot() (events, stages []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...), append([]string(nil), m.stages...)
}
