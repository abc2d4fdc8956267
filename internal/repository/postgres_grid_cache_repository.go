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

// PostgresGridCacheRepository persists per-cell grid scores in the
// grid_cache table. Batch writes run in one transaction so a failed grid
// computation never leaves a partial cell set behind.
type PostgresGridCacheRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresGridCacheRepository(client *database.PostgreSQLClient) *PostgresGridCacheRepository {
	return &PostgresGridCacheRepository{client: client}
}

var _ repository.GridCacheRepository = (*PostgresGridCacheRepository)(nil)

func (r *PostgresGridCacheRepository) Get(ctx context.Context, key string) (*model.ScoreResult, error) {
	var payload []byte
	err := r.client.DB.QueryRowContext(ctx,
		`SELECT payload FROM grid_cache WHERE cell_key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("%w: grid cache get: %v", model.ErrUpstreamUnavailable, err)
	}

	var result model.ScoreResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("parsing cached cell %s: %w", key, err)
	}
	return &result, nil
}

// PutBatch upserts all computed cells or none.
func (r *PostgresGridCacheRepository) PutBatch(ctx context.Context, entries map[string]*model.ScoreResult) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning grid cache write: %v", model.ErrUpstreamUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO grid_cache (cell_key, model_version, payload, computed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (cell_key) DO UPDATE SET payload = EXCLUDED.payload, computed_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("preparing grid cache write: %w", err)
	}
	defer stmt.Close()

	for key, result := range entries {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshaling cell %s: %w", key, err)
		}
		if _, err := stmt.ExecContext(ctx, key, result.ModelVersion, payload); err != nil {
			return fmt.Errorf("%w: writing cell %s: %v", model.ErrUpstreamUnavailable, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing grid cache write: %v", model.ErrUpstreamUnavailable, err)
	}
	return nil
}
