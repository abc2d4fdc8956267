package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
	"SafeMap-App/internal/infrastructure/database"
)

// PostgresPOIsRepository serves POI reads and writes from PostgreSQL with
// PostGIS. Nearest-neighbor lookups use the KNN operator (<->) against the
// GiST index on poi.geom, with the exact geodesic distance computed by
// ST_Distance on geography.
type PostgresPOIsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresPOIsRepository(client *database.PostgreSQLClient) *PostgresPOIsRepository {
	return &PostgresPOIsRepository{client: client}
}

var _ repository.NearestPOIRepository = (*PostgresPOIsRepository)(nil)
var _ repository.POIsRepository = (*PostgresPOIsRepository)(nil)

// Nearest finds the closest POI of the given type to the point.
func (r *PostgresPOIsRepository) Nearest(ctx context.Context, lat, lng float64, poiType model.POIType) (*model.NearestPOI, error) {
	query := `
		SELECT
			id,
			name,
			ST_Distance(
				geom::geography,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
			) AS distance_m
		FROM poi
		WHERE type = $3
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)
		LIMIT 1
	`

	row := r.client.DB.QueryRowContext(ctx, query, lng, lat, string(poiType))

	nearest := model.NearestPOI{Type: poiType}
	err := row.Scan(&nearest.ID, &nearest.Name, &nearest.DistanceM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: type %s", model.ErrPOINotFound, poiType)
		}
		return nil, fmt.Errorf("%w: nearest %s query: %v", model.ErrUpstreamUnavailable, poiType, err)
	}

	return &nearest, nil
}

func (r *PostgresPOIsRepository) GetByID(ctx context.Context, id string) (*model.POI, error) {
	query := `SELECT id, type, name, ST_X(geom), ST_Y(geom), source, source_id FROM poi WHERE id = $1`

	row := r.client.DB.QueryRowContext(ctx, query, id)
	poi, err := scanPOI(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("POI %s not found", id)
		}
		return nil, fmt.Errorf("fetching POI %s: %w", id, err)
	}
	return poi, nil
}

// List returns POIs matching the filter, ordered by id for stable output.
func (r *PostgresPOIsRepository) List(ctx context.Context, filter model.POIFilter) ([]model.POI, error) {
	query := `SELECT id, type, name, ST_X(geom), ST_Y(geom), source, source_id FROM poi WHERE 1=1`
	var args []interface{}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.BBox != nil {
		args = append(args, filter.BBox.MinLng, filter.BBox.MinLat, filter.BBox.MaxLng, filter.BBox.MaxLat)
		query += fmt.Sprintf(" AND ST_Within(geom, ST_MakeEnvelope($%d, $%d, $%d, $%d, 4326))",
			len(args)-3, len(args)-2, len(args)-1, len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args))

	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing POIs: %v", model.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	var pois []model.POI
	for rows.Next() {
		poi, err := scanPOI(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning POI row: %w", err)
		}
		pois = append(pois, *poi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating POI rows: %w", err)
	}
	return pois, nil
}

// CountByType returns the number of stored POIs per type.
func (r *PostgresPOIsRepository) CountByType(ctx context.Context) (map[model.POIType]int, error) {
	rows, err := r.client.DB.QueryContext(ctx, `SELECT type, COUNT(*) FROM poi GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("%w: counting POIs: %v", model.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	counts := make(map[model.POIType]int)
	for rows.Next() {
		var poiType string
		var count int
		if err := rows.Scan(&poiType, &count); err != nil {
			return nil, fmt.Errorf("scanning POI count row: %w", err)
		}
		counts[model.POIType(poiType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating POI count rows: %w", err)
	}
	return counts, nil
}

const upsertPOIQuery = `
	INSERT INTO poi (id, type, name, geom, source, source_id)
	VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6, $7)
	ON CONFLICT (type, source, source_id)
	DO UPDATE SET name = EXCLUDED.name, geom = EXCLUDED.geom
`

// Create inserts or updates a POI, minting an id when none is given.
// Uniqueness is (type, source, source_id), so re-ingesting the same upstream
// record updates it in place.
func (r *PostgresPOIsRepository) Create(ctx context.Context, poi *model.POI) error {
	if poi.ID == "" {
		poi.ID = uuid.New().String()
	}
	loc := poi.ToLatLng()

	_, err := r.client.DB.ExecContext(ctx, upsertPOIQuery,
		poi.ID, string(poi.Type), poi.Name, loc.Lng, loc.Lat, poi.Source, poi.SourceID)
	if err != nil {
		return fmt.Errorf("creating POI %s: %w", poi.Name, err)
	}
	return nil
}

// BulkCreate upserts POIs inside one transaction.
func (r *PostgresPOIsRepository) BulkCreate(ctx context.Context, pois []model.POI) error {
	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning POI bulk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertPOIQuery)
	if err != nil {
		return fmt.Errorf("preparing POI bulk insert: %w", err)
	}
	defer stmt.Close()

	for i := range pois {
		poi := &pois[i]
		if poi.ID == "" {
			poi.ID = uuid.New().String()
		}
		loc := poi.ToLatLng()
		if _, err := stmt.ExecContext(ctx, poi.ID, string(poi.Type), poi.Name, loc.Lng, loc.Lat, poi.Source, poi.SourceID); err != nil {
			return fmt.Errorf("inserting POI %s: %w", poi.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing POI bulk insert: %w", err)
	}
	return nil
}

func (r *PostgresPOIsRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.DB.ExecContext(ctx, `DELETE FROM poi WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting POI %s: %w", id, err)
	}
	return nil
}

// scanPOI builds a model.POI from a row of (id, type, name, lng, lat,
// source, source_id).
func scanPOI(scan func(dest ...interface{}) error) (*model.POI, error) {
	var poi model.POI
	var poiType string
	var lng, lat float64
	var source, sourceID sql.NullString

	if err := scan(&poi.ID, &poiType, &poi.Name, &lng, &lat, &source, &sourceID); err != nil {
		return nil, err
	}

	poi.Type = model.POIType(poiType)
	poi.Location = &model.Geometry{Type: "Point", Coordinates: []float64{lng, lat}}
	poi.Source = source.String
	poi.SourceID = sourceID.String
	return &poi, nil
}
