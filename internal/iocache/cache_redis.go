package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// redisTimeout bounds every round trip to Redis.
const redisTimeout = 5 * time.Second

// Hash fields of one cache entry.
const (
	redisValueField   = "value"
	redisVersionField = "version"
	redisTSField      = "ts"
)

// RedisCacheStore keeps cached tables as Redis hashes under a common key prefix.
type RedisCacheStore struct {
	client *redis.Client
	prefix string
}

var _ contract.CacheStore = &RedisCacheStore{} // Compile-time check

// NewRedisCacheStore connects to Redis with a URL such as redis://localhost:6379/0.
func NewRedisCacheStore(prefix, connStr string) (*RedisCacheStore, error) {
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL %q: %w. Expected redis://[user:password@]host:port/db", connStr, err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis. Check that the server is running: %w", err)
	}

	return &RedisCacheStore{client: client, prefix: prefix}, nil
}

func (rs *RedisCacheStore) key(key string) string {
	return rs.prefix + ":" + key
}

// Get retrieves a value by key. Missing keys report sql.ErrNoRows like the SQL stores.
func (rs *RedisCacheStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	fields, err := rs.client.HGetAll(ctx, rs.key(key)).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(fields) == 0 {
		return nil, 0, 0, sql.ErrNoRows
	}

	version, err := strconv.Atoi(fields[redisVersionField])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache entry %s: bad version: %w", key, err)
	}
	ts, err := strconv.ParseInt(fields[redisTSField], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache entry %s: bad timestamp: %w", key, err)
	}
	return []byte(fields[redisValueField]), version, ts, nil
}

// Set inserts or replaces a key/value pair.
func (rs *RedisCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return rs.client.HSet(ctx, rs.key(key),
		redisValueField, value,
		redisVersionField, version,
		redisTSField, timestamp,
	).Err()
}

// GetStatus walks the key prefix to count entries and find the timestamp range.
func (rs *RedisCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.RedisBackend),
		Connected: rs.client != nil,
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	var oldestTs, lastTs int64
	iter := rs.client.Scan(ctx, 0, rs.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		raw, err := rs.client.HGet(ctx, k, redisTSField).Result()
		if err != nil {
			continue
		}
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		status.TotalEntries++
		if oldestTs == 0 || ts < oldestTs {
			oldestTs = ts
		}
		if ts > lastTs {
			lastTs = ts
		}
		if size, err := rs.client.MemoryUsage(ctx, k).Result(); err == nil {
			status.TableSizeBytes += size
		}
	}
	if err := iter.Err(); err != nil {
		return status, fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if status.TotalEntries > 0 {
		status.OldestEntryTime = time.Unix(oldestTs, 0)
		status.LastEntryTime = time.Unix(lastTs, 0)
	}
	return status, nil
}

// Close closes the Redis client.
func (rs *RedisCacheStore) Close() error {
	if rs.client != nil {
		return rs.client.Close()
	}
	return nil
}
