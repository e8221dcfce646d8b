package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/leadpulse/internal/iocache"
)

func TestContextConcurrentAccess(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	ctx := withRunID(context.Background(), 12345)
	ctx = contextWithCacheManager(ctx, mgr)

	const numGoroutines = 50
	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runID, ok := getRunID(ctx)
			assert.True(t, ok, "Goroutine %d", id)
			assert.Equal(t, int64(12345), runID, "Goroutine %d", id)
			assert.Same(t, mgr, cacheManagerFromContext(ctx), "Goroutine %d", id)
		}(i)
	}
	wg.Wait()
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	_, ok := getRunID(ctx)
	assert.False(t, ok)

	// Untracked runs carry a zero ID
	_, ok = getRunID(withRunID(ctx, 0))
	assert.False(t, ok)

	assert.Nil(t, cacheManagerFromContext(ctx))
}

func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := withRunID(base, 1)
	ctx2 := withRunID(base, 2)

	id1, _ := getRunID(ctx1)
	id2, _ := getRunID(ctx2)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}
