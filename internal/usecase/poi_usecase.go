package usecase

import (
	"context"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
)

// POIUseCase exposes POI listings and statistics for the map UI.
type POIUseCase interface {
	List(ctx context.Context, filter model.POIFilter) ([]model.POI, error)
	Stats(ctx context.Context) (*model.POIStats, error)
}

type poiUseCaseImpl struct {
	pois repository.POIsRepository
}

func NewPOIUseCase(pois repository.POIsRepository) POIUseCase {
	return &poiUseCaseImpl{pois: pois}
}

func (u *poiUseCaseImpl) List(ctx context.Context, filter model.POIFilter) ([]model.POI, error) {
	return u.pois.List(ctx, filter)
}

func (u *poiUseCaseImpl) Stats(ctx context.Context) (*model.POIStats, error) {
	counts, err := u.pois.CountByType(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.POIStats{Counts: counts}
	for _, count := range counts {
		stats.Total += count
	}
	return stats, nil
}
