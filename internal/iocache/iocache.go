// Package iocache is for caching loaded tables and recording dashboard runs.
package iocache

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// CacheStoreManager manages the table cache and the run history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	table        contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetTableStore returns the table CacheStore.
func (mgr *CacheStoreManager) GetTableStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.table
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateTableName rejects anything that is not a plain SQL identifier.
func validateTableName(name string) error {
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name %q: must start with a letter or underscore and contain only letters, digits and underscores", name)
	}
	return nil
}

// quoteTableName quotes an identifier for the backend's SQL dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// placeholder returns the n-th (1-based) parameter placeholder for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
