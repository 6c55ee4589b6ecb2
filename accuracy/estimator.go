package accuracy

import (
	"fmt"
	"math"

	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// Input describes what is known about an attempt.
type Input struct {
	// Accuracy is the target accuracy in [0,1].
	Accuracy float64

	// Misses is the number of missed judged objects. It is held fixed.
	Misses int

	// Overrides pins individual categories. Which categories an estimator
	// honours is reported by Estimator.Overrides; unknown ones are ignored.
	Overrides scoring.Statistics
}

// Estimator converts between accuracy and hit statistics for one ruleset.
//
// Contract:
// - Concurrency: implementations are stateless and safe for concurrent use.
// - Ownership: beatmaps are never modified; returned statistics are new maps.
// - Errors: domain violations return *DegenerateInputError.
type Estimator interface {
	// Ruleset returns the ruleset this estimator serves.
	Ruleset() scoring.Ruleset

	// Overrides lists the categories that switch Estimate into override mode.
	Overrides() []scoring.HitResult

	// JudgedCount returns the number of judged objects in b under m.
	JudgedCount(b *beatmap.Beatmap, m mods.Set) int

	// Estimate synthesizes statistics for b.
	Estimate(b *beatmap.Beatmap, m mods.Set, in Input) (scoring.Statistics, error)

	// Accuracy computes the accuracy stats represent on b.
	Accuracy(b *beatmap.Beatmap, stats scoring.Statistics, m mods.Set) (float64, error)
}

var estimators = map[scoring.Ruleset]Estimator{
	scoring.Standard: Standard{},
	scoring.Taiko:    Taiko{},
	scoring.Catch:    Catch{},
	scoring.Mania:    Mania{},
}

// For returns the estimator for r.
func For(r scoring.Ruleset) (Estimator, error) {
	e, ok := estimators[r]
	if !ok {
		return nil, fmt.Errorf("%w: %d", scoring.ErrUnknownRuleset, int(r))
	}
	return e, nil
}

// round is half-to-even, matching the reference scoring implementation.
func round(x float64) int {
	return int(math.RoundToEven(x))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// checkAccuracy rejects NaN and values outside [0,1].
func checkAccuracy(r scoring.Ruleset, acc float64) error {
	if math.IsNaN(acc) || acc < 0 || acc > 1 {
		return degenerate(r, "accuracy", "%v is outside [0,1]", acc)
	}
	return nil
}

// checkCounts validates the judged total and miss count shared by every
// estimator.
func checkCounts(r scoring.Ruleset, judged, misses int) error {
	if judged <= 0 {
		return degenerate(r, "judged", "beatmap has no judged objects")
	}
	if misses < 0 {
		return degenerate(r, "misses", "%d is negative", misses)
	}
	if misses > judged {
		return degenerate(r, "misses", "%d exceeds %d judged objects", misses, judged)
	}
	return nil
}

// overrides extracts the categories in keep from in.Overrides. ok reports
// whether any of them was set.
func overrides(r scoring.Ruleset, in Input, keep []scoring.HitResult) (map[scoring.HitResult]int, bool, error) {
	out := make(map[scoring.HitResult]int, len(keep))
	for _, h := range keep {
		v, present := in.Overrides.Lookup(h)
		if !present {
			continue
		}
		if v < 0 {
			return nil, false, degenerate(r, h.String(), "override %d is negative", v)
		}
		out[h] = v
	}
	return out, len(out) > 0, nil
}

// nonNegative returns an error naming the first negative count.
func nonNegative(r scoring.Ruleset, stats scoring.Statistics, order []scoring.HitResult) error {
	for _, h := range order {
		if v := stats[h]; v < 0 {
			return degenerate(r, h.String(), "derived count %d is negative", v)
		}
	}
	return nil
}

// ratio divides and reports a degenerate input when the denominator is zero.
func ratio(r scoring.Ruleset, num, den float64) (float64, error) {
	if den <= 0 {
		return 0, degenerate(r, "statistics", "no judged objects")
	}
	return num / den, nil
}

func validateStatistics(r scoring.Ruleset, stats scoring.Statistics) error {
	if err := stats.Validate(r); err != nil {
		return fmt.Errorf("accuracy: %w", err)
	}
	return nil
}
