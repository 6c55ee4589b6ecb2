// Package calc runs a performance calculation for one score.
//
// A Calculator owns no formulas. It fetches the beatmap through a
// BeatmapSource, decodes and truncates it, converts it for the requested
// ruleset and mods, resolves the score statistics with the accuracy
// estimators, and hands the result to the difficulty and performance
// collaborators. Parsed beatmaps, playable beatmaps and difficulty
// attributes are memoized in Artifacts, which may be shared by several
// calculators.
//
// Every stage runs through observe.Middleware, so each one is traced,
// timed and logged with the request id.
//
// # Statistics
//
// A request carries a target accuracy, a statistics breakdown, or both:
//
//   - breakdown only: the breakdown is authoritative and accuracy is
//     derived from it.
//   - accuracy only: statistics are synthesized with zero misses.
//   - both: statistics are synthesized from the accuracy keeping the
//     breakdown's miss count, and API-only categories such as slider tail
//     hits are copied over unchanged.
//
// A failed attempt must carry a breakdown. Its basic judgement total
// becomes the object limit the beatmap is truncated to.
package calc
