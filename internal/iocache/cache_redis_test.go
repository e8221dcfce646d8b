package iocache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/leadpulse/schema"
)

func TestNewRedisCacheStoreErrors(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		_, err := NewRedisCacheStore(tableCacheTable, "localhost:6379")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid Redis URL")
	})

	t.Run("unreachable server", func(t *testing.T) {
		_, err := NewRedisCacheStore(tableCacheTable, "redis://127.0.0.1:1/0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to redis")
	})

	t.Run("via NewCacheStore", func(t *testing.T) {
		_, err := NewCacheStore(tableCacheTable, schema.RedisBackend, "not-a-url")
		assert.Error(t, err)
	})
}

func TestRedisKeyPrefix(t *testing.T) {
	rs := &RedisCacheStore{prefix: tableCacheTable}
	assert.Equal(t, "leadpulse_table_cache:abc123", rs.key("abc123"))
}
