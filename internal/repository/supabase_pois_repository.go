package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
	"SafeMap-App/internal/infrastructure/database"
)

// SupabasePOIsRepository serves POIs through the Supabase PostgREST API,
// for deployments without direct PostgreSQL access. Nearest-neighbor
// lookups go through the nearest_poi RPC (a SQL function wrapping the same
// KNN query the direct repository runs).
type SupabasePOIsRepository struct {
	client *database.SupabaseClient
}

func NewSupabasePOIsRepository(client *database.SupabaseClient) *SupabasePOIsRepository {
	return &SupabasePOIsRepository{client: client}
}

var _ repository.NearestPOIRepository = (*SupabasePOIsRepository)(nil)
var _ repository.POIsRepository = (*SupabasePOIsRepository)(nil)

// supabasePOIRow matches the flat poi row shape exposed over PostgREST.
type supabasePOIRow struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Source   string  `json:"source"`
	SourceID string  `json:"source_id"`
}

func (row *supabasePOIRow) toPOI() model.POI {
	return model.POI{
		ID:       row.ID,
		Type:     model.POIType(row.Type),
		Name:     row.Name,
		Location: &model.Geometry{Type: "Point", Coordinates: []float64{row.Lng, row.Lat}},
		Source:   row.Source,
		SourceID: row.SourceID,
	}
}

// Nearest calls the nearest_poi RPC with the query point and type.
func (r *SupabasePOIsRepository) Nearest(ctx context.Context, lat, lng float64, poiType model.POIType) (*model.NearestPOI, error) {
	params := map[string]interface{}{
		"qlat":  lat,
		"qlng":  lng,
		"qtype": string(poiType),
	}

	data := r.client.GetClient().Rpc("nearest_poi", "", params)
	if data == "" {
		return nil, fmt.Errorf("%w: nearest_poi RPC returned no data", model.ErrUpstreamUnavailable)
	}

	var rows []struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		DistanceM float64 `json:"distance_m"`
	}
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("%w: parsing nearest_poi RPC response: %v", model.ErrUpstreamUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: type %s", model.ErrPOINotFound, poiType)
	}

	return &model.NearestPOI{
		Type:      poiType,
		ID:        rows[0].ID,
		Name:      rows[0].Name,
		DistanceM: rows[0].DistanceM,
	}, nil
}

func (r *SupabasePOIsRepository) GetByID(ctx context.Context, id string) (*model.POI, error) {
	data, _, err := r.client.GetClient().From("poi").
		Select("id,type,name,lat,lng,source,source_id", "exact", false).
		Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("%w: fetching POI %s: %v", model.ErrUpstreamUnavailable, id, err)
	}

	var rows []supabasePOIRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("parsing POI response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("POI %s not found", id)
	}

	poi := rows[0].toPOI()
	return &poi, nil
}

// List fetches POIs over PostgREST. The bbox filter is applied client-side;
// PostGIS operators are not reachable through the REST filter syntax.
func (r *SupabasePOIsRepository) List(ctx context.Context, filter model.POIFilter) ([]model.POI, error) {
	builder := r.client.GetClient().From("poi").
		Select("id,type,name,lat,lng,source,source_id", "exact", false)
	if filter.Type != "" {
		builder = builder.Eq("type", string(filter.Type))
	}

	data, _, err := builder.Execute()
	if err != nil {
		return nil, fmt.Errorf("%w: listing POIs: %v", model.ErrUpstreamUnavailable, err)
	}

	var rows []supabasePOIRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("parsing POI list response: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var pois []model.POI
	for _, row := range rows {
		if filter.BBox != nil {
			if row.Lng < filter.BBox.MinLng || row.Lng > filter.BBox.MaxLng ||
				row.Lat < filter.BBox.MinLat || row.Lat > filter.BBox.MaxLat {
				continue
			}
		}
		pois = append(pois, row.toPOI())
		if len(pois) >= limit {
			break
		}
	}
	return pois, nil
}

func (r *SupabasePOIsRepository) CountByType(ctx context.Context) (map[model.POIType]int, error) {
	data, _, err := r.client.GetClient().From("poi").Select("type", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("%w: counting POIs: %v", model.ErrUpstreamUnavailable, err)
	}

	var rows []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("parsing POI count response: %w", err)
	}

	counts := make(map[model.POIType]int)
	for _, row := range rows {
		counts[model.POIType(row.Type)]++
	}
	return counts, nil
}

func (r *SupabasePOIsRepository) Create(ctx context.Context, poi *model.POI) error {
	if poi.ID == "" {
		poi.ID = uuid.New().String()
	}
	loc := poi.ToLatLng()

	payload, err := json.Marshal(supabasePOIRow{
		ID:       poi.ID,
		Type:     string(poi.Type),
		Name:     poi.Name,
		Lat:      loc.Lat,
		Lng:      loc.Lng,
		Source:   poi.Source,
		SourceID: poi.SourceID,
	})
	if err != nil {
		return fmt.Errorf("marshaling POI: %w", err)
	}

	_, _, err = r.client.GetClient().From("poi").Insert(string(payload), true, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("creating POI %s: %w", poi.Name, err)
	}
	return nil
}

func (r *SupabasePOIsRepository) BulkCreate(ctx context.Context, pois []model.POI) error {
	for i := range pois {
		if err := r.Create(ctx, &pois[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SupabasePOIsRepository) Delete(ctx context.Context, id string) error {
	_, _, err := r.client.GetClient().From("poi").Delete("", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("deleting POI %s: %w", id, err)
	}
	return nil
}
