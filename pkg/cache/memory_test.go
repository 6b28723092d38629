package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var out []string
	found, err := c.Get(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "tags", []string{"ai", "fintech"}, time.Minute))
	found, err = c.Get(ctx, "tags", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"ai", "fintech"}, out)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	ttl, err := c.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Second, ttl)

	now = now.Add(2 * time.Second)
	var v int
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	ttl, err = c.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, -2*time.Second, ttl)
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "startups:trending:week", 1, 0))
	require.NoError(t, c.Set(ctx, "startups:trending:all", 1, 0))
	require.NoError(t, c.Set(ctx, "startups:filter_options", 1, 0))

	require.NoError(t, c.DeletePattern(ctx, "startups:trending:*"))

	for key, want := range map[string]bool{
		"startups:trending:week":  false,
		"startups:trending:all":   false,
		"startups:filter_options": true,
	} {
		var v int
		found, err := c.Get(ctx, key, &v)
		require.NoError(t, err)
		assert.Equal(t, want, found, key)
	}
}

func TestMemoryCacheIncrementConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Increment(ctx, "counter")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := c.Increment(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(51), n)
}
