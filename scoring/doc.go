// Package scoring defines the shared vocabulary of a score: rulesets,
// hit results, and per-result statistics.
//
// It has no dependencies on the rest of the module so estimators, caches
// and the calculator can all exchange the same types.
package scoring
