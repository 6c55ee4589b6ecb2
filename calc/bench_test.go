package calc

import (
	"context"
	"testing"

	"github.com/sosubot/ppcalc/memo"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// BenchmarkCalculate_Memoized measures a request whose artifacts are all
// memoized.
func BenchmarkCalculate_Memoized(b *testing.B) {
	c, err := New(Config{}, Collaborators{
		Source:      &fakeSource{data: []byte(circles(1000))},
		Decoder:     circleDecoder,
		Difficulty:  &fakeDifficulty{},
		Performance: &fakePerformance{},
	})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	req := Request{BeatmapID: 1, Ruleset: scoring.Standard, Accuracy: ptr(0.97), Passed: true, Mods: mods.Of("HD", "DT")}
	if _, err := c.Calculate(ctx, req); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Calculate(ctx, req)
	}
}

// BenchmarkCalculate_NoMemo measures a full fetch, decode and estimate.
func BenchmarkCalculate_NoMemo(b *testing.B) {
	c, err := New(Config{}, Collaborators{
		Source:      &fakeSource{data: []byte(circles(1000))},
		Decoder:     circleDecoder,
		Difficulty:  &fakeDifficulty{},
		Performance: &fakePerformance{},
	}, WithArtifacts(NewArtifacts(memo.NoMemoPolicy(), nil)))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	req := Request{BeatmapID: 1, Ruleset: scoring.Standard, Passed: true, Statistics: scoring.Statistics{scoring.Ok: 20, scoring.Miss: 3}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Calculate(ctx, req)
	}
}

// BenchmarkRequest_Validate measures tag and cross-field validation.
func BenchmarkRequest_Validate(b *testing.B) {
	req := Request{BeatmapID: 1, Accuracy: ptr(0.97), Passed: true, Mods: mods.Of("HD", "DT"), Statistics: scoring.Statistics{scoring.Miss: 2}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = req.Validate()
	}
}
