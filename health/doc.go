// Package health reports whether the calculator's shared state is usable.
//
// A Checker reports one component as Healthy, Degraded or Unhealthy. The
// package ships checkers for the state the calculator owns:
//
//   - CacheDirChecker: the beatmap cache directory exists and accepts writes.
//   - CircuitChecker: the upstream circuit breaker is not open.
//   - MemoChecker: the memo tables have not grown past their thresholds.
//     Memo entries are never evicted, so growth is watched instead.
//
// # Aggregating Health Checks
//
//	agg := health.NewAggregator()
//	agg.Register("cache_dir", health.NewCacheDirChecker(cache.Dir()))
//	agg.Register("upstream", health.NewCircuitChecker("upstream", cache.Breaker()))
//	agg.Register("memo", health.NewMemoChecker(health.MemoCheckerConfig{
//	    WarningEntries:  50_000,
//	    CriticalEntries: 200_000,
//	}, artifacts.Tables()...))
//
//	report := agg.Run(ctx)
//	if report.Status == health.StatusUnhealthy {
//	    // take the instance out of rotation
//	}
package health
