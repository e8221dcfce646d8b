package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/internal/loader"
	"github.com/huangsam/leadpulse/schema"
)

// currentCacheVersion defines the version of the cached table encoding
const currentCacheVersion = 1

// cacheMaxAge is how long a cached table stays usable
const cacheMaxAge = 7 * 24 * time.Hour

// loadTableFunc loads a table straight from disk. Tests swap it out.
var loadTableFunc = loader.Load

// cachedLoadTable returns the parsed input table, reusing the table cache when the
// file has not changed since it was cached.
func cachedLoadTable(cfg *contract.Config, mgr contract.CacheManager) (*schema.Table, error) {
	if cfg.InputPath == "" {
		return nil, fmt.Errorf("an input file (.csv or .xlsx) is required")
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetTableStore()
	}
	if store == nil {
		// Fallback to direct loading
		return loadTableFunc(cfg.InputPath, cfg.Sheet)
	}

	key, err := generateCacheKey(cfg.InputPath, cfg.Sheet)
	if err != nil {
		return nil, err
	}

	// Check for cache hit
	if table := checkCacheHit(store, key); table != nil {
		contract.Logger().Debug("table cache hit", zap.String("path", cfg.InputPath))
		return table, nil
	}

	// Cache miss: load and store
	return loadAndStore(cfg, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached table
func checkCacheHit(store contract.CacheStore, key string) *schema.Table {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return nil
	}

	var table schema.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil
	}
	return &table
}

// loadAndStore loads the table from disk and stores it in the cache
func loadAndStore(cfg *contract.Config, store contract.CacheStore, key string) (*schema.Table, error) {
	table, err := loadTableFunc(cfg.InputPath, cfg.Sheet)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(table)
	if err == nil {
		err = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	if err != nil {
		contract.LogWarn("Failed to cache loaded table", err)
	}
	return table, nil
}

// generateCacheKey derives a key from the file identity, so edits to the file invalidate it
func generateCacheKey(path, sheet string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	key := fmt.Sprintf("%s:%d:%d:%s", path, info.Size(), info.ModTime().UnixNano(), sheet)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key))), nil
}
