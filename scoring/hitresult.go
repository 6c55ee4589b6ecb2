package scoring

import "fmt"

// HitResult is the outcome category a judged object receives.
type HitResult int

const (
	Miss HitResult = iota
	Meh
	Ok
	Good
	Great
	Perfect
	SmallTickMiss
	SmallTickHit
	LargeTickMiss
	LargeTickHit
	SmallBonus
	LargeBonus
	IgnoreMiss
	IgnoreHit
	SliderTailHit
)

var hitResultNames = [...]string{
	Miss:          "miss",
	Meh:           "meh",
	Ok:            "ok",
	Good:          "good",
	Great:         "great",
	Perfect:       "perfect",
	SmallTickMiss: "small_tick_miss",
	SmallTickHit:  "small_tick_hit",
	LargeTickMiss: "large_tick_miss",
	LargeTickHit:  "large_tick_hit",
	SmallBonus:    "small_bonus",
	LargeBonus:    "large_bonus",
	IgnoreMiss:    "ignore_miss",
	IgnoreHit:     "ignore_hit",
	SliderTailHit: "slider_tail_hit",
}

// String returns the snake_case name used by the upstream API.
func (h HitResult) String() string {
	if h < 0 || int(h) >= len(hitResultNames) {
		return fmt.Sprintf("hit_result(%d)", int(h))
	}
	return hitResultNames[h]
}

// ParseHitResult converts an API name back into a HitResult.
func ParseHitResult(name string) (HitResult, bool) {
	for i, n := range hitResultNames {
		if n == name {
			return HitResult(i), true
		}
	}
	return 0, false
}

// IsBasic reports whether h is one of the six basic judgements
// (miss through perfect). Basic judgements make up the judged-object count
// of a score.
func (h HitResult) IsBasic() bool {
	return h >= Miss && h <= Perfect
}

// auxiliary results carry no weight in any estimator and are passed through
// untouched.
var auxiliary = []HitResult{SmallBonus, LargeBonus, IgnoreMiss, IgnoreHit}

// judgements lists, per ruleset, the categories the estimator produces.
var judgements = map[Ruleset][]HitResult{
	Standard: {Great, Ok, Meh, Miss},
	Taiko:    {Great, Ok, Meh, Miss},
	Catch:    {Great, LargeTickHit, SmallTickHit, SmallTickMiss, Miss},
	Mania:    {Perfect, Great, Good, Ok, Meh, Miss},
}

// subJudgements are ruleset-specific categories the API reports on top of
// the estimator output.
var subJudgements = map[Ruleset][]HitResult{
	Standard: {LargeTickHit, LargeTickMiss, SmallTickHit, SmallTickMiss, SliderTailHit},
	Catch:    {LargeTickMiss},
}

// Judgements returns the categories an estimator for r produces.
func (r Ruleset) Judgements() []HitResult {
	out := make([]HitResult, len(judgements[r]))
	copy(out, judgements[r])
	return out
}

// Passthrough returns the categories for r that are accepted in a
// statistics breakdown but never synthesized.
func (r Ruleset) Passthrough() []HitResult {
	out := make([]HitResult, 0, len(subJudgements[r])+len(auxiliary))
	out = append(out, subJudgements[r]...)
	return append(out, auxiliary...)
}

// Allows reports whether h belongs to the vocabulary of r.
func (r Ruleset) Allows(h HitResult) bool {
	for _, j := range judgements[r] {
		if j == h {
			return true
		}
	}
	for _, j := range r.Passthrough() {
		if j == h {
			return true
		}
	}
	return false
}
