package accuracy

import (
	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// Catch is the estimator for the catch ruleset.
//
// Categories: Great is a caught fruit, LargeTickHit a caught droplet,
// SmallTickHit a caught tiny droplet and SmallTickMiss a missed one. Miss
// counts missed fruits and droplets together.
type Catch struct{}

var _ Estimator = Catch{}

// Ruleset returns scoring.Catch.
func (Catch) Ruleset() scoring.Ruleset { return scoring.Catch }

// Overrides returns LargeTickHit and SmallTickHit.
func (Catch) Overrides() []scoring.HitResult {
	return []scoring.HitResult{scoring.LargeTickHit, scoring.SmallTickHit}
}

// catchCounts holds the object totals the catch formulas work from.
type catchCounts struct {
	maxCombo, fruits, droplets, tiny int
}

func countCatch(b *beatmap.Beatmap) catchCounts {
	return catchCounts{
		maxCombo: b.MaxCombo(),
		fruits:   b.Count(beatmap.Fruit) + b.CountNested(beatmap.Fruit),
		droplets: b.CountNested(beatmap.Droplet),
		tiny:     b.CountNested(beatmap.TinyDroplet),
	}
}

// JudgedCount returns max combo plus tiny droplets.
func (Catch) JudgedCount(b *beatmap.Beatmap, _ mods.Set) int {
	c := countCatch(b)
	return c.maxCombo + c.tiny
}

// Estimate synthesizes catch statistics. Misses are taken from droplets
// first, then fruits. Tiny droplets come from accuracy unless SmallTickHit
// is overridden. Derived counts are never clamped.
func (c Catch) Estimate(b *beatmap.Beatmap, m mods.Set, in Input) (scoring.Statistics, error) {
	r := scoring.Catch
	n := countCatch(b)
	judged := n.maxCombo + n.tiny
	if err := checkCounts(r, judged, in.Misses); err != nil {
		return nil, err
	}

	pinned, _, err := overrides(r, in, c.Overrides())
	if err != nil {
		return nil, err
	}

	droplets, ok := pinned[scoring.LargeTickHit]
	if !ok {
		droplets = max(0, n.droplets-in.Misses)
	} else if droplets > n.droplets {
		return nil, degenerate(r, scoring.LargeTickHit.String(), "%d exceeds %d droplets", droplets, n.droplets)
	}

	fruits := n.fruits - (in.Misses - (n.droplets - droplets))
	if fruits < 0 {
		return nil, degenerate(r, scoring.Great.String(),
			"%d misses exceed %d fruits and %d missable droplets", in.Misses, n.fruits, n.droplets-droplets)
	}

	tinyHits, ok := pinned[scoring.SmallTickHit]
	if !ok {
		if err := checkAccuracy(r, in.Accuracy); err != nil {
			return nil, err
		}
		tinyHits = round(in.Accuracy*float64(judged)) - fruits - droplets
		if tinyHits < 0 || tinyHits > n.tiny {
			lo := float64(fruits+droplets) / float64(judged)
			hi := float64(fruits+droplets+n.tiny) / float64(judged)
			return nil, degenerate(r, scoring.SmallTickHit.String(),
				"accuracy %.4f is outside the feasible interval [%.4f, %.4f] for %d misses", in.Accuracy, lo, hi, in.Misses)
		}
	}

	stats := scoring.Statistics{
		scoring.Great:         fruits,
		scoring.LargeTickHit:  droplets,
		scoring.SmallTickHit:  tinyHits,
		scoring.SmallTickMiss: n.tiny - tinyHits,
		scoring.Miss:          in.Misses,
	}
	if err := nonNegative(r, stats, r.Judgements()); err != nil {
		return nil, err
	}
	return stats, nil
}

// Accuracy computes caught objects over all judged objects.
func (Catch) Accuracy(_ *beatmap.Beatmap, stats scoring.Statistics, _ mods.Set) (float64, error) {
	r := scoring.Catch
	if err := validateStatistics(r, stats); err != nil {
		return 0, err
	}
	hits := stats[scoring.Great] + stats[scoring.LargeTickHit] + stats[scoring.SmallTickHit]
	total := hits + stats[scoring.Miss] + stats[scoring.SmallTickMiss]
	return ratio(r, float64(hits), float64(total))
}
