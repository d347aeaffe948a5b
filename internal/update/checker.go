package update

import (
	"context"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
)

// Result is the outcome of an update check
type Result struct {
	Release
	Current string
	Newer   bool
	Cached  bool
}

// Source provides the newest release
type Source interface {
	Latest(ctx context.Context) (Release, error)
}

// Checker compares the running version with the newest release
type Checker struct {
	source Source
	cache  *Cache
}

// NewChecker creates a Checker; cache may be nil
func NewChecker(source Source, cache *Cache) *Checker {
	if source == nil {
		source = NewClient()
	}
	return &Checker{source: source, cache: cache}
}

// Check reports whether a release newer than current exists, using the cache
// when it holds a fresh answer
func (c *Checker) Check(ctx context.Context, current string) (Result, error) {
	return c.check(ctx, current, false)
}

// CheckNow is Check without the cache lookup; the answer is still cached
func (c *Checker) CheckNow(ctx context.Context, current string) (Result, error) {
	return c.check(ctx, current, true)
}

func (c *Checker) check(ctx context.Context, current string, force bool) (Result, error) {
	if c.cache != nil && !force {
		if rel, ok := c.cache.Get(); ok {
			logger.Debug("update check: cached %s", rel.Version)
			return newResult(rel, current, true), nil
		}
	}

	rel, err := c.source.Latest(ctx)
	if err != nil {
		return Result{Current: NormalizeVersion(current)}, err
	}

	if c.cache != nil {
		if err := c.cache.Set(rel); err != nil {
			logger.Warn("failed to cache update check: %v", err)
		}
	}
	logger.Debug("update check: latest %s from %s", rel.Version, rel.Source)
	return newResult(rel, current, false), nil
}

func newResult(rel Release, current string, cached bool) Result {
	return Result{
		Release: rel,
		Current: NormalizeVersion(current),
		Newer:   CompareVersions(rel.Version, current) > 0,
		Cached:  cached,
	}
}

// Ensure Client implements Source interface
var _ Source = (*Client)(nil)
