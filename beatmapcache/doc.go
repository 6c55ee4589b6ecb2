// Package beatmapcache keeps a local file copy of every beatmap fetched from
// the upstream store.
//
// Fetch serves a cached file when it is at least MinSize bytes and no older
// than Retention. Otherwise it takes a per-id exclusive section, checks the
// store again, and downloads through a resilience.Executor (retry with a
// fixed delay, per-attempt timeout, optional circuit breaker and rate
// limiter). Successful downloads replace the file atomically; a failed or
// cancelled download never touches the existing file.
//
// Concurrent callers for the same id share one download. Callers for
// different ids never wait on each other.
package beatmapcache
