package accuracy

import (
	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// Mania allocation weights. Perfect is 61, or 60 with the classic mod.
const (
	maniaGreat = 60
	maniaGood  = 40
	maniaOk    = 20
	maniaMeh   = 10
)

// Mania is the estimator for the mania ruleset.
type Mania struct{}

var _ Estimator = Mania{}

// Ruleset returns scoring.Mania.
func (Mania) Ruleset() scoring.Ruleset { return scoring.Mania }

// Overrides returns Great, Good, Ok and Meh. Perfect is always derived.
func (Mania) Overrides() []scoring.HitResult {
	return []scoring.HitResult{scoring.Great, scoring.Good, scoring.Ok, scoring.Meh}
}

// JudgedCount counts one judgement per note and two per hold note. With
// the classic mod hold notes are judged once.
func (Mania) JudgedCount(b *beatmap.Beatmap, m mods.Set) int {
	n := b.Len()
	if !m.HasClassic() {
		n += b.Count(beatmap.HoldNote)
	}
	return n
}

func perfectWeight(m mods.Set) int {
	if m.HasClassic() {
		return 60
	}
	return 61
}

// Estimate synthesizes mania statistics.
//
// In accuracy mode every non-miss starts as a Meh and the remaining weight
// is allocated greedily from Perfect down to Ok. The result is the highest
// weight allocation not exceeding round(accuracy·judged·perfectWeight).
func (e Mania) Estimate(b *beatmap.Beatmap, m mods.Set, in Input) (scoring.Statistics, error) {
	r := scoring.Mania
	judged := e.JudgedCount(b, m)
	if err := checkCounts(r, judged, in.Misses); err != nil {
		return nil, err
	}

	pinned, overridden, err := overrides(r, in, e.Overrides())
	if err != nil {
		return nil, err
	}

	var stats scoring.Statistics
	if overridden {
		great, good, ok, meh := pinned[scoring.Great], pinned[scoring.Good], pinned[scoring.Ok], pinned[scoring.Meh]
		stats = scoring.Statistics{
			scoring.Perfect: judged - in.Misses - great - good - ok - meh,
			scoring.Great:   great,
			scoring.Good:    good,
			scoring.Ok:      ok,
			scoring.Meh:     meh,
			scoring.Miss:    in.Misses,
		}
	} else {
		if err := checkAccuracy(r, in.Accuracy); err != nil {
			return nil, err
		}
		stats = allocateMania(judged, in.Misses, perfectWeight(m), in.Accuracy)
	}

	if err := nonNegative(r, stats, r.Judgements()); err != nil {
		return nil, err
	}
	return stats, nil
}

func allocateMania(judged, misses, perfect int, acc float64) scoring.Statistics {
	target := round(acc * float64(judged) * float64(perfect))
	remaining := judged - misses
	delta := max(target-maniaMeh*remaining, 0)

	take := func(step int) int {
		n := min(delta/step, remaining)
		delta -= n * step
		remaining -= n
		return n
	}

	perfects := take(perfect - maniaMeh)
	greats := take(maniaGreat - maniaMeh)
	goods := take(maniaGood - maniaMeh)
	oks := take(maniaOk - maniaMeh)

	return scoring.Statistics{
		scoring.Perfect: perfects,
		scoring.Great:   greats,
		scoring.Good:    goods,
		scoring.Ok:      oks,
		scoring.Meh:     remaining,
		scoring.Miss:    misses,
	}
}

// Accuracy computes the score-weighted accuracy with Perfect=305 (300 with
// classic), Great=300, Good=200, Ok=100, Meh=50.
func (Mania) Accuracy(_ *beatmap.Beatmap, stats scoring.Statistics, m mods.Set) (float64, error) {
	r := scoring.Mania
	if err := validateStatistics(r, stats); err != nil {
		return 0, err
	}

	pw := 5 * perfectWeight(m)
	perfect, great, good := stats[scoring.Perfect], stats[scoring.Great], stats[scoring.Good]
	ok, meh, miss := stats[scoring.Ok], stats[scoring.Meh], stats[scoring.Miss]

	total := float64(pw*perfect + 300*great + 200*good + 100*ok + 50*meh)
	maxTotal := float64(pw * (perfect + great + good + ok + meh + miss))
	return ratio(r, total, maxTotal)
}
