package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SafeMap-App/internal/domain/model"
)

func TestMemoryCacheRepository(t *testing.T) {
	result := &model.ScoreResult{Score: 85.71, ModelVersion: "v1.0", Lat: 59.91, Lng: 10.75}

	t.Run("miss before put", func(t *testing.T) {
		cache := NewMemoryCacheRepository()
		_, err := cache.Get(context.Background(), "p:59.9139:10.7522:v1.0")
		assert.ErrorIs(t, err, model.ErrCacheMiss)
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		cache := NewMemoryCacheRepository()
		require.NoError(t, cache.Put(context.Background(), "k", result))

		got, err := cache.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, result, got)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("batch writes land atomically visible", func(t *testing.T) {
		cache := NewMemoryCacheRepository()
		entries := map[string]*model.ScoreResult{
			"g:1:2:500:v1.0": {Score: 10},
			"g:3:4:500:v1.0": {Score: 20},
		}
		require.NoError(t, cache.PutBatch(context.Background(), entries))
		assert.Equal(t, 2, cache.Len())

		got, err := cache.Get(context.Background(), "g:3:4:500:v1.0")
		require.NoError(t, err)
		assert.Equal(t, 20.0, got.Score)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		cache := NewMemoryCacheRepository()
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("k%d", i%8)
				_ = cache.Put(context.Background(), key, result)
				_, _ = cache.Get(context.Background(), key)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 8, cache.Len())
	})
}
