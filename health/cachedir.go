package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// CacheDirChecker checks that the beatmap cache directory accepts writes.
// A directory that does not exist yet is healthy: it is created on the
// first download.
type CacheDirChecker struct {
	dir string
}

// NewCacheDirChecker creates a checker for dir.
func NewCacheDirChecker(dir string) *CacheDirChecker {
	return &CacheDirChecker{dir: dir}
}

// Name returns the name of this checker.
func (c *CacheDirChecker) Name() string {
	return "cache_dir"
}

// Check stats the directory and writes then removes a probe file.
func (c *CacheDirChecker) Check(ctx context.Context) Result {
	if r, done := cancelled(ctx); done {
		return r
	}

	details := map[string]any{"dir": c.dir}

	info, err := os.Stat(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		details["exists"] = false
		return Healthy("cache directory not created yet").WithDetails(details)
	}
	if err != nil {
		return Unhealthy("cache directory unreadable", err).WithDetails(details)
	}
	details["exists"] = true
	if !info.IsDir() {
		return Unhealthy("cache path is not a directory", ErrNotDirectory).WithDetails(details)
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return Unhealthy("cache directory unreadable", err).WithDetails(details)
	}
	details["files"] = len(entries)

	probe, err := os.CreateTemp(c.dir, ".health-*")
	if err != nil {
		return Unhealthy("cache directory not writable", fmt.Errorf("%w: %v", ErrCheckFailed, err)).WithDetails(details)
	}
	name := probe.Name()
	_ = probe.Close()
	if err := os.Remove(name); err != nil {
		return Degraded(fmt.Sprintf("probe file left behind: %v", err)).WithDetails(details)
	}

	return Healthy("cache directory writable").WithDetails(details)
}
