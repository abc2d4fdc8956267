package repository

import (
	"context"

	"SafeMap-App/internal/domain/model"
)

// ScoreCacheRepository memoizes point score results by bucketed-coordinate
// cache key. Entries have no TTL; only a model_version change (part of the
// key) invalidates them. Get returns model.ErrCacheMiss (wrapped) for absent
// keys; Put must be an idempotent upsert so concurrent misses for the same
// key can race with last-write-wins semantics.
type ScoreCacheRepository interface {
	Get(ctx context.Context, key string) (*model.ScoreResult, error)
	Put(ctx context.Context, key string, result *model.ScoreResult) error
}

// GridCacheRepository memoizes per-cell scores by quantized cell key.
// PutBatch persists all entries or none; a failed grid computation must not
// leave a partial cell set behind.
type GridCacheRepository interface {
	Get(ctx context.Context, key string) (*model.ScoreResult, error)
	PutBatch(ctx context.Context, entries map[string]*model.ScoreResult) error
}
