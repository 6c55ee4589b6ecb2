package accuracy

import (
	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// Taiko is the estimator for the taiko ruleset. Ok stands for the "good"
// judgement.
type Taiko struct{}

var _ Estimator = Taiko{}

// Ruleset returns scoring.Taiko.
func (Taiko) Ruleset() scoring.Ruleset { return scoring.Taiko }

// Overrides returns Ok.
func (Taiko) Overrides() []scoring.HitResult {
	return []scoring.HitResult{scoring.Ok}
}

// JudgedCount returns the beatmap max combo.
func (Taiko) JudgedCount(b *beatmap.Beatmap, _ mods.Set) int {
	return b.MaxCombo()
}

// Estimate synthesizes Great, Ok and Miss counts. Meh is always zero.
//
// With Great=2 and Ok=1 the target total is round(2·accuracy·judged).
// Accuracy is first clamped to [0.5, 1] over the non-missed objects, the
// range reachable without changing the miss count.
func (t Taiko) Estimate(b *beatmap.Beatmap, m mods.Set, in Input) (scoring.Statistics, error) {
	r := scoring.Taiko
	total := t.JudgedCount(b, m)
	if err := checkCounts(r, total, in.Misses); err != nil {
		return nil, err
	}

	pinned, overridden, err := overrides(r, in, t.Overrides())
	if err != nil {
		return nil, err
	}

	var great, good int
	if overridden {
		good = pinned[scoring.Ok]
		great = total - good - in.Misses
	} else {
		if err := checkAccuracy(r, in.Accuracy); err != nil {
			return nil, err
		}
		if relevant := total - in.Misses; relevant > 0 {
			n := float64(relevant)
			rel := clamp(in.Accuracy*float64(total)/n, 0.5, 1)
			great = round(2*rel*n) - relevant
			good = relevant - great
		}
	}

	stats := scoring.Statistics{
		scoring.Great: great,
		scoring.Ok:    good,
		scoring.Meh:   0,
		scoring.Miss:  in.Misses,
	}
	if err := nonNegative(r, stats, r.Judgements()); err != nil {
		return nil, err
	}
	return stats, nil
}

// Accuracy computes (2·great + ok) / (2·judged).
func (Taiko) Accuracy(_ *beatmap.Beatmap, stats scoring.Statistics, _ mods.Set) (float64, error) {
	r := scoring.Taiko
	if err := validateStatistics(r, stats); err != nil {
		return 0, err
	}
	great, good, miss := stats[scoring.Great], stats[scoring.Ok], stats[scoring.Miss]
	return ratio(r, float64(2*great+good), float64(2*(great+good+miss)))
}
