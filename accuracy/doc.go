// Package accuracy reconstructs hit statistics from a target accuracy and
// computes accuracy from hit statistics, for each of the four rulesets.
//
// Each ruleset has an [Estimator]. Estimate runs in one of two modes:
//
//   - Override mode: when any of the estimator's override categories is set
//     in [Input.Overrides], those counts are used verbatim and the top
//     category is filled by conservation. Accuracy is not consulted
//     (except for the catch tiny-droplet count, see below).
//   - Accuracy mode: otherwise the target accuracy is inverted into counts
//     using the ruleset's judgement weights, with misses held fixed.
//
// Rounding is round-half-to-even throughout.
//
// # Rulesets
//
//	Standard  Great=6 Ok=2 Meh=1 Miss=0 over hit objects.
//	Taiko     Great=2 Ok=1 Miss=0 over max combo.
//	Catch     fruits, droplets and tiny droplets from nested objects.
//	Mania     greedy allocation, Perfect=61 (60 with classic) down to Meh=10.
//
// Catch derives the tiny-droplet count from accuracy unless SmallTickHit is
// overridden, and never clamps. Any negative derived count is reported as a
// [DegenerateInputError] carrying the feasible accuracy interval.
//
// # Errors
//
// Inputs outside the formulas' domain return *[DegenerateInputError], which
// matches [ErrDegenerateInput] with errors.Is.
package accuracy
