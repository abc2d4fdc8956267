package usecase

import (
	"context"
	"errors"
	"log"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
	"SafeMap-App/internal/domain/service"
)

// ScoreUseCase serves point safety scores through the read-through point
// score cache.
type ScoreUseCase interface {
	GetScore(ctx context.Context, lat, lng float64) (*model.ScoreResult, error)
}

// scoreUseCaseImpl wraps the scoring service with cache reads and
// write-backs. The cache is an optimization, never a dependency: when the
// cache store is unreachable the usecase logs the degradation and computes
// directly.
type scoreUseCaseImpl struct {
	scoring *service.ScoringService
	cache   repository.ScoreCacheRepository
}

// NewScoreUseCase creates a score usecase over the given scoring service
// and cache backend.
func NewScoreUseCase(scoring *service.ScoringService, cache repository.ScoreCacheRepository) ScoreUseCase {
	return &scoreUseCaseImpl{scoring: scoring, cache: cache}
}

// GetScore returns the safety score for a point, served from cache when the
// coordinate bucket was scored before under the current model version.
//
// Concurrent misses for the same bucket may compute redundantly and race on
// the write-back; that is accepted, the computation is deterministic and the
// upsert idempotent.
func (u *scoreUseCaseImpl) GetScore(ctx context.Context, lat, lng float64) (*model.ScoreResult, error) {
	if err := service.ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}

	key := service.PointCacheKey(lat, lng, u.scoring.ModelVersion())

	cached, err := u.cache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, model.ErrCacheMiss) {
		log.Printf("⚠️ score cache read failed, computing directly: %v", err)
	}

	result, err := u.scoring.ScorePoint(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	if err := u.cache.Put(ctx, key, result); err != nil {
		log.Printf("⚠️ score cache write failed for %s: %v", key, err)
	}
	return result, nil
}
