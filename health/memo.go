package health

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sosubot/ppcalc/memo"
)

// MemoTable is the view of a memo table the checker needs.
type MemoTable = memo.Sized

// MemoCheckerConfig configures the memo growth checker.
type MemoCheckerConfig struct {
	// WarningEntries is the total entry count that triggers degraded status.
	// Default: 50000
	WarningEntries int

	// CriticalEntries is the total entry count that triggers unhealthy status.
	// Default: 4 * WarningEntries
	CriticalEntries int
}

// MemoChecker watches the combined size of the memo tables. Entries live
// until Reset, so the only signal of runaway growth is the count itself.
type MemoChecker struct {
	config MemoCheckerConfig
	tables []MemoTable
}

// NewMemoChecker creates a checker over tables.
func NewMemoChecker(config MemoCheckerConfig, tables ...MemoTable) *MemoChecker {
	if config.WarningEntries <= 0 {
		config.WarningEntries = 50_000
	}
	if config.CriticalEntries <= config.WarningEntries {
		config.CriticalEntries = 4 * config.WarningEntries
	}
	return &MemoChecker{config: config, tables: tables}
}

// Name returns the name of this checker.
func (m *MemoChecker) Name() string {
	return "memo"
}

// Check sums the table sizes and compares them against the thresholds.
func (m *MemoChecker) Check(ctx context.Context) Result {
	if r, done := cancelled(ctx); done {
		return r
	}

	total := 0
	details := make(map[string]any, len(m.tables)+4)
	for _, t := range m.tables {
		n := t.Len()
		total += n
		details[string(t.Kind())+"_entries"] = n
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	details["total_entries"] = total
	details["heap_alloc_mb"] = float64(stats.HeapAlloc) / (1024 * 1024)
	details["warning_entries"] = m.config.WarningEntries
	details["critical_entries"] = m.config.CriticalEntries

	switch {
	case total >= m.config.CriticalEntries:
		return Unhealthy(fmt.Sprintf("memo tables critical: %d entries", total), ErrCheckFailed).WithDetails(details)
	case total >= m.config.WarningEntries:
		return Degraded(fmt.Sprintf("memo tables large: %d entries", total)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("memo tables normal: %d entries", total)).WithDetails(details)
	}
}
