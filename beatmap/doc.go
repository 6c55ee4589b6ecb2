// Package beatmap models a decoded beatmap as the calculator sees it: an
// ordered sequence of hit objects, each with optional nested objects.
//
// Decoding the beatmap file format is left to a [Decoder] supplied by the
// caller. This package only counts objects, answers the nested-object
// questions the estimators ask, and truncates a beatmap to the objects a
// failed attempt reached.
//
// # Ownership
//
// A *Beatmap is treated as read-only once it has been returned from a
// memoized computation. [Beatmap.Limit] and [Beatmap.Clone] always return a
// new value and never modify the receiver.
package beatmap
