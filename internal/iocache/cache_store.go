package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// TableCacheStore keeps encoded input tables in a SQL table keyed by file fingerprint.
type TableCacheStore struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &TableCacheStore{} // Compile-time check

// NewCacheStore opens the table cache for backend. Redis gets its own store and
// NoneBackend gets a store that never hits.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	switch backend {
	case schema.NoneBackend:
		return &TableCacheStore{tableName: tableName, backend: backend, connStr: connStr}, nil
	case schema.RedisBackend:
		return NewRedisCacheStore(tableName, connStr)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, redis, or none", backend)
	}

	db, err := openDB(backend, connStr, GetDBFilePath())
	if err != nil {
		return nil, err
	}

	// Create the table schema
	query := getCreateTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &TableCacheStore{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateTableQuery returns the DDL of the table cache for backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				table_key VARCHAR(255) PRIMARY KEY,
				table_data LONGBLOB NOT NULL,
				schema_version INT NOT NULL,
				cached_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				table_key TEXT PRIMARY KEY,
				table_data BYTEA NOT NULL,
				schema_version INTEGER NOT NULL,
				cached_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				table_key TEXT PRIMARY KEY,
				table_data BLOB NOT NULL,
				schema_version INTEGER NOT NULL,
				cached_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get returns the encoded table stored under key with its schema version and
// the Unix time it was written. A miss is sql.ErrNoRows.
func (tc *TableCacheStore) Get(key string) ([]byte, int, int64, error) {
	if tc.backend == schema.NoneBackend || tc.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var data []byte
	var version int
	var cachedAt int64

	quotedTableName := quoteTableName(tc.tableName, tc.backend)
	query := fmt.Sprintf(`SELECT table_data, schema_version, cached_at FROM %s WHERE table_key = %s`,
		quotedTableName, placeholder(tc.backend, 1))
	row := tc.db.QueryRow(query, key)

	if err := row.Scan(&data, &version, &cachedAt); err != nil {
		return nil, 0, 0, err
	}
	return data, version, cachedAt, nil
}

// Set stores an encoded table, replacing whatever key held before.
func (tc *TableCacheStore) Set(key string, data []byte, version int, cachedAt int64) error {
	if tc.backend == schema.NoneBackend || tc.db == nil {
		return nil
	}

	query := tc.getUpsertQuery()
	_, err := tc.db.Exec(query, key, data, version, cachedAt)
	return err
}

// getUpsertQuery returns the insert-or-replace statement for the backend.
func (tc *TableCacheStore) getUpsertQuery() string {
	quotedTableName := quoteTableName(tc.tableName, tc.backend)
	switch tc.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (table_key, table_data, schema_version, cached_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE table_data = new.table_data, schema_version = new.schema_version, cached_at = new.cached_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (table_key, table_data, schema_version, cached_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (table_key) DO UPDATE SET table_data = EXCLUDED.table_data, schema_version = EXCLUDED.schema_version, cached_at = EXCLUDED.cached_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (table_key, table_data, schema_version, cached_at) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (tc *TableCacheStore) Close() error {
	if tc.db != nil {
		return tc.db.Close()
	}
	return nil
}

// GetStatus reports how many tables are cached and when they were written.
func (tc *TableCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(tc.backend),
		Connected: tc.db != nil,
	}

	if tc.backend == schema.NoneBackend || tc.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(tc.tableName, tc.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := tc.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to count cached tables: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	rangeQuery := fmt.Sprintf("SELECT MIN(cached_at), MAX(cached_at) FROM %s", quotedTableName)
	var oldest, newest int64
	if err := tc.db.QueryRow(rangeQuery).Scan(&oldest, &newest); err != nil {
		return status, fmt.Errorf("failed to read cached_at range: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldest, 0)
	status.LastEntryTime = time.Unix(newest, 0)

	status.TableSizeBytes = tc.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize asks the backend for the size of the cache table, or guesses one
// kilobyte per cached table when it cannot.
func (tc *TableCacheStore) tableSize(totalEntries int) int64 {
	fallback := int64(totalEntries) * 1000
	var size int64

	switch tc.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := tc.db.QueryRow(sizeQuery).Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(tc.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := tc.db.QueryRow(sizeQuery, cfg.DBName, tc.tableName).Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.PostgreSQLBackend:
		if err := tc.db.QueryRow("SELECT pg_total_relation_size($1)", tc.tableName).Scan(&size); err != nil {
			return fallback
		}
		return size

	default:
		return fallback
	}
}
