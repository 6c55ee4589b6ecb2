package calc

import (
	"slices"

	"github.com/sosubot/ppcalc/accuracy"
	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// carried lists categories the estimator itself copies from Input.Overrides.
// They are left out of the final overlay so the classic mod can drop them.
var carried = map[scoring.Ruleset][]scoring.HitResult{
	scoring.Standard: {scoring.SliderTailHit, scoring.LargeTickMiss},
}

// overlayCategories returns the breakdown categories copied verbatim into
// the resolved statistics.
func overlayCategories(r scoring.Ruleset) []scoring.HitResult {
	var out []scoring.HitResult
	for _, h := range r.Passthrough() {
		if !slices.Contains(carried[r], h) {
			out = append(out, h)
		}
	}
	return out
}

// passthroughOverrides returns the sub-judgements present in stats.
func passthroughOverrides(r scoring.Ruleset, stats scoring.Statistics) scoring.Statistics {
	out := scoring.Statistics{}
	for _, h := range carried[r] {
		if v, ok := stats.Lookup(h); ok {
			out[h] = v
		}
	}
	return out
}

// withSliderTails counts every slider tail as hit unless overrides already
// say otherwise.
func withSliderTails(b *beatmap.Beatmap, overrides scoring.Statistics) scoring.Statistics {
	if _, ok := overrides.Lookup(scoring.SliderTailHit); ok {
		return overrides
	}
	sliders := b.Count(beatmap.Slider)
	if sliders == 0 {
		return overrides
	}
	if overrides == nil {
		overrides = scoring.Statistics{}
	}
	overrides[scoring.SliderTailHit] = sliders
	return overrides
}

// resolveStatistics produces the final statistics and their accuracy.
func resolveStatistics(est accuracy.Estimator, b *beatmap.Beatmap, m mods.Set, target *float64, breakdown scoring.Statistics) (scoring.Statistics, float64, error) {
	r := est.Ruleset()

	var in accuracy.Input
	switch {
	case breakdown == nil:
		in = accuracy.Input{Accuracy: *target}
	case target == nil:
		// Pin every override category, absent ones as zero, so the
		// estimator fills only the top category by conservation.
		in = accuracy.Input{
			Accuracy:  1,
			Misses:    breakdown.Get(scoring.Miss),
			Overrides: passthroughOverrides(r, breakdown),
		}
		for _, h := range est.Overrides() {
			in.Overrides[h] = breakdown.Get(h)
		}
	default:
		in = accuracy.Input{
			Accuracy:  *target,
			Misses:    breakdown.Get(scoring.Miss),
			Overrides: passthroughOverrides(r, breakdown),
		}
	}

	if r == scoring.Standard {
		in.Overrides = withSliderTails(b, in.Overrides)
	}

	stats, err := est.Estimate(b, m, in)
	if err != nil {
		return nil, 0, err
	}
	if breakdown != nil {
		stats.Overlay(breakdown, overlayCategories(r))
	}

	acc, err := est.Accuracy(b, stats, m)
	if err != nil {
		return nil, 0, err
	}
	return stats, acc, nil
}
