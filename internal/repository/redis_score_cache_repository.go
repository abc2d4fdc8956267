package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
)

// RedisScoreCacheRepository keeps point score results in Redis. Entries are
// stored without expiry: model_version is part of every key, so a config
// change strands the old entries rather than serving them.
type RedisScoreCacheRepository struct {
	client *redis.Client
}

func NewRedisScoreCacheRepository(client *redis.Client) *RedisScoreCacheRepository {
	return &RedisScoreCacheRepository{client: client}
}

var _ repository.ScoreCacheRepository = (*RedisScoreCacheRepository)(nil)

func (r *RedisScoreCacheRepository) Get(ctx context.Context, key string) (*model.ScoreResult, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", model.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("%w: redis get: %v", model.ErrUpstreamUnavailable, err)
	}

	var result model.ScoreResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("parsing cached score %s: %w", key, err)
	}
	return &result, nil
}

func (r *RedisScoreCacheRepository) Put(ctx context.Context, key string, result *model.ScoreResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling score result: %w", err)
	}
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", model.ErrUpstreamUnavailable, err)
	}
	return nil
}
