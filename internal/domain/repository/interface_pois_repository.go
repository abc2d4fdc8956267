package repository

import (
	"context"

	"SafeMap-App/internal/domain/model"
)

// NearestPOIRepository is the distance provider the scoring engine consumes.
// Nearest returns model.ErrPOINotFound (wrapped) when no POI of the type
// exists; transport failures wrap model.ErrUpstreamUnavailable.
type NearestPOIRepository interface {
	Nearest(ctx context.Context, lat, lng float64, poiType model.POIType) (*model.NearestPOI, error)
}

// POIsRepository provides POI listings and ingestion-side writes. The
// scoring engine itself only depends on NearestPOIRepository.
type POIsRepository interface {
	GetByID(ctx context.Context, id string) (*model.POI, error)
	List(ctx context.Context, filter model.POIFilter) ([]model.POI, error)
	CountByType(ctx context.Context) (map[model.POIType]int, error)
	Create(ctx context.Context, poi *model.POI) error
	BulkCreate(ctx context.Context, pois []model.POI) error
	Delete(ctx context.Context, id string) error
}
