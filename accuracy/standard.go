package accuracy

import (
	"math"

	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// Standard is the estimator for the standard ruleset.
type Standard struct{}

var _ Estimator = Standard{}

// Ruleset returns scoring.Standard.
func (Standard) Ruleset() scoring.Ruleset { return scoring.Standard }

// Overrides returns Ok and Meh.
func (Standard) Overrides() []scoring.HitResult {
	return []scoring.HitResult{scoring.Ok, scoring.Meh}
}

// JudgedCount returns the number of hit objects.
func (Standard) JudgedCount(b *beatmap.Beatmap, _ mods.Set) int {
	return b.Len()
}

// sliderHeadAccuracy reports whether slider tail and large tick
// sub-judgements take part in scoring. The classic mod turns them off
// unless its no_slider_head_accuracy setting is explicitly false.
func sliderHeadAccuracy(m mods.Set) bool {
	return !(m.HasClassic() && m.Bool(mods.Classic, "no_slider_head_accuracy", true))
}

// Estimate synthesizes Great, Ok, Meh and Miss counts. SliderTailHit and
// LargeTickMiss overrides are carried into the result when slider head
// accuracy applies.
func (s Standard) Estimate(b *beatmap.Beatmap, m mods.Set, in Input) (scoring.Statistics, error) {
	r := scoring.Standard
	total := b.Len()
	if err := checkCounts(r, total, in.Misses); err != nil {
		return nil, err
	}

	pinned, overridden, err := overrides(r, in, s.Overrides())
	if err != nil {
		return nil, err
	}

	var stats scoring.Statistics
	if overridden {
		ok, meh := pinned[scoring.Ok], pinned[scoring.Meh]
		stats = scoring.Statistics{
			scoring.Great: total - ok - meh - in.Misses,
			scoring.Ok:    ok,
			scoring.Meh:   meh,
			scoring.Miss:  in.Misses,
		}
	} else {
		if err := checkAccuracy(r, in.Accuracy); err != nil {
			return nil, err
		}
		stats = estimateStandard(total, in.Misses, in.Accuracy)
	}

	if err := nonNegative(r, stats, r.Judgements()); err != nil {
		return nil, err
	}

	if sliderHeadAccuracy(m) {
		if err := carrySubJudgements(b, in, stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// estimateStandard inverts accuracy = (6·great + 2·ok + meh) / (6·total)
// while holding misses fixed.
func estimateStandard(total, misses int, acc float64) scoring.Statistics {
	relevant := total - misses
	if relevant == 0 {
		return scoring.Statistics{scoring.Great: 0, scoring.Ok: 0, scoring.Meh: 0, scoring.Miss: misses}
	}

	n := float64(relevant)
	rel := clamp(acc*float64(total)/n, 0, 1)

	var ok, meh int
	switch {
	case rel >= 0.25:
		// Zero mehs at 100%, one meh per nine oks at 75%, four per nine at 50%.
		mehPerOk := math.Pow(1-(rel-0.25)/0.75, 2)
		okEstimate := 6 * n * (1 - rel) / (5*mehPerOk + 4)
		ok = round(okEstimate)
		meh = round(okEstimate+okEstimate*mehPerOk) - ok
	case rel >= 1.0/6:
		// No greats.
		okEstimate := 6*n*rel - n
		ok = round(okEstimate)
		meh = round(okEstimate+(n-okEstimate)) - ok
	default:
		// Only mehs; the shortfall becomes extra misses.
		meh = round(6 * n * rel)
		misses = total - meh
	}

	return scoring.Statistics{
		scoring.Great: total - ok - meh - misses,
		scoring.Ok:    ok,
		scoring.Meh:   meh,
		scoring.Miss:  misses,
	}
}

func carrySubJudgements(b *beatmap.Beatmap, in Input, stats scoring.Statistics) error {
	r := scoring.Standard
	if v, ok := in.Overrides.Lookup(scoring.LargeTickMiss); ok {
		largeTicks := b.CountNested(beatmap.SliderTick, beatmap.SliderRepeat)
		if v < 0 || v > largeTicks {
			return degenerate(r, scoring.LargeTickMiss.String(), "%d is outside [0,%d]", v, largeTicks)
		}
		stats[scoring.LargeTickMiss] = v
	}
	if v, ok := in.Overrides.Lookup(scoring.SliderTailHit); ok {
		sliders := b.Count(beatmap.Slider)
		if v < 0 || v > sliders {
			return degenerate(r, scoring.SliderTailHit.String(), "%d is outside [0,%d]", v, sliders)
		}
		stats[scoring.SliderTailHit] = v
	}
	return nil
}

// Accuracy computes (6·great + 2·ok + meh) / (6·judged). Slider tails
// (weight 3) and large ticks (weight 0.6) are added when present in stats.
func (Standard) Accuracy(b *beatmap.Beatmap, stats scoring.Statistics, _ mods.Set) (float64, error) {
	r := scoring.Standard
	if err := validateStatistics(r, stats); err != nil {
		return 0, err
	}

	great, ok, meh, miss := stats[scoring.Great], stats[scoring.Ok], stats[scoring.Meh], stats[scoring.Miss]
	total := float64(6*great + 2*ok + meh)
	maxTotal := float64(6 * (great + ok + meh + miss))

	if tails, present := stats.Lookup(scoring.SliderTailHit); present {
		total += float64(3 * tails)
		maxTotal += float64(3 * b.Count(beatmap.Slider))
	}
	if tickMisses, present := stats.Lookup(scoring.LargeTickMiss); present {
		largeTicks := b.CountNested(beatmap.SliderTick, beatmap.SliderRepeat)
		total += 0.6 * float64(largeTicks-tickMisses)
		maxTotal += 0.6 * float64(largeTicks)
	}

	return ratio(r, total, maxTotal)
}
