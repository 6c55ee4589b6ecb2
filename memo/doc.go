// Package memo memoizes derived beatmap artifacts in memory.
//
// A [Table] maps a [Key] (beatmap id, ruleset, optional object limit and
// mod set) to a value computed on first use. Values live until [Table.Reset]
// or [Table.Delete]; there is no eviction.
//
// Keys whose mod set contains a non-deterministic mod are never stored or
// served (see [DefaultSkipRule]). Errors are never stored.
//
// Concurrent misses on the same key may each run the compute function and
// the last write wins. Setting [Policy.SingleFlight] collapses concurrent
// misses into one computation instead.
package memo
