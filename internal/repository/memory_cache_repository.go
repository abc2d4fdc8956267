package repository

import (
	"context"
	"fmt"
	"sync"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
)

// MemoryCacheRepository is a process-local cache used when no external cache
// store is available. It serves both the point and grid cache interfaces;
// entries live until the process exits (model_version is part of every key,
// so a config change simply strands the old entries).
type MemoryCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]*model.ScoreResult
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{entries: make(map[string]*model.ScoreResult)}
}

var _ repository.ScoreCacheRepository = (*MemoryCacheRepository)(nil)
var _ repository.GridCacheRepository = (*MemoryCacheRepository)(nil)

func (r *MemoryCacheRepository) Get(ctx context.Context, key string) (*model.ScoreResult, error) {
	r.mu.RLock()
	result, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrCacheMiss, key)
	}
	return result, nil
}

func (r *MemoryCacheRepository) Put(ctx context.Context, key string, result *model.ScoreResult) error {
	r.mu.Lock()
	r.entries[key] = result
	r.mu.Unlock()
	return nil
}

func (r *MemoryCacheRepository) PutBatch(ctx context.Context, entries map[string]*model.ScoreResult) error {
	r.mu.Lock()
	for key, result := range entries {
		r.entries[key] = result
	}
	r.mu.Unlock()
	return nil
}

// Len reports the number of cached entries.
func (r *MemoryCacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
