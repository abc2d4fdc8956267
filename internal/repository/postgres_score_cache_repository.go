package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
	"SafeMap-App/internal/infrastructure/database"
)

// PostgresScoreCacheRepository persists point score results in the
// score_cache table, keyed by the bucketed-coordinate cache key. Writes are
// idempotent upserts: concurrent misses for the same bucket may both compute
// and the last write wins, which is harmless because the computation is
// deterministic for a given model version.
type PostgresScoreCacheRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresScoreCacheRepository(client *database.PostgreSQLClient) *PostgresScoreCacheRepository {
	return &PostgresScoreCacheRepository{client: client}
}

var _ repository.ScoreCacheRepository = (*PostgresScoreCacheRepository)(nil)

func (r *PostgresScoreCacheRepository) Get(ctx context.Context, key string) (*model.ScoreResult, error) {
	var payload []byte
	err := r.client.DB.QueryRowContext(ctx,
		`SELECT payload FROM score_cache WHERE cache_key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("%w: score cache get: %v", model.ErrUpstreamUnavailable, err)
	}

	var result model.ScoreResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("parsing cached score %s: %w", key, err)
	}
	return &result, nil
}

func (r *PostgresScoreCacheRepository) Put(ctx context.Context, key string, result *model.ScoreResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling score result: %w", err)
	}

	_, err = r.client.DB.ExecContext(ctx, `
		INSERT INTO score_cache (cache_key, model_version, payload, computed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, computed_at = NOW()
	`, key, result.ModelVersion, payload)
	if err != nil {
		return fmt.Errorf("%w: score cache put: %v", model.ErrUpstreamUnavailable, err)
	}
	return nil
}
