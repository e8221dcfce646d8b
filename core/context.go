package core

import (
	"context"

	"github.com/huangsam/leadpulse/internal/contract"
)

// Context keys for dashboard options
type contextKey string

const (
	runIDKey        contextKey = "runID"
	cacheManagerKey contextKey = "cacheManager"
)

// withRunID attaches the history run ID of the current dashboard
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the history run ID, or false when the run is not tracked
func getRunID(ctx context.Context) (int64, bool) {
	runID, ok := ctx.Value(runIDKey).(int64)
	return runID, ok && runID > 0
}

// contextWithCacheManager attaches the cache manager for nested helpers
func contextWithCacheManager(ctx context.Context, mgr contract.CacheManager) context.Context {
	return context.WithValue(ctx, cacheManagerKey, mgr)
}

// cacheManagerFromContext returns the cache manager, or nil when none is attached
func cacheManagerFromContext(ctx context.Context) contract.CacheManager {
	mgr, _ := ctx.Value(cacheManagerKey).(contract.CacheManager)
	return mgr
}
