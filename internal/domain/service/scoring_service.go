package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"SafeMap-App/internal/config"
	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
)

// ScoringService computes the composite safety score for a point: nearest
// POI per configured type, decay subscore per found type, weights
// renormalized over the found subset, weighted sum.
//
// The service holds only immutable configuration, so it is safe for
// concurrent use across requests.
type ScoringService struct {
	nearest      repository.NearestPOIRepository
	decay        *DecayModel
	weights      *WeightTable
	types        []model.POIType
	modelVersion string
	horizonM     float64
}

// NewScoringService wires a scoring service from validated configuration.
func NewScoringService(nearest repository.NearestPOIRepository, cfg *config.ScoringConfig) (*ScoringService, error) {
	weights, err := NewWeightTable(cfg.Weights)
	if err != nil {
		return nil, err
	}
	return &ScoringService{
		nearest:      nearest,
		decay:        NewDecayModel(cfg),
		weights:      weights,
		types:        cfg.Types(),
		modelVersion: cfg.ModelVersion,
		horizonM:     cfg.SearchHorizonM,
	}, nil
}

// ModelVersion returns the version tag of the loaded scoring configuration.
func (s *ScoringService) ModelVersion() string {
	return s.modelVersion
}

type nearestLookup struct {
	poiType model.POIType
	poi     *model.NearestPOI
	err     error
}

// ScorePoint computes the safety score for one coordinate.
//
// Distance lookups for the configured POI types run concurrently; the
// breakdown is assembled in canonical type order afterwards, so the output
// is deterministic. A type with no POI inside the search horizon is a data
// gap, not an error: it appears in the breakdown with nil distance and the
// remaining weights are renormalized.
func (s *ScoringService) ScorePoint(ctx context.Context, lat, lng float64) (*model.ScoreResult, error) {
	if err := ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}

	resultsChan := make(chan nearestLookup, len(s.types))
	var wg sync.WaitGroup
	for _, t := range s.types {
		wg.Add(1)
		go func(poiType model.POIType) {
			defer wg.Done()
			poi, err := s.nearest.Nearest(ctx, lat, lng, poiType)
			resultsChan <- nearestLookup{poiType: poiType, poi: poi, err: err}
		}(t)
	}
	wg.Wait()
	close(resultsChan)

	found := make(map[model.POIType]*model.NearestPOI, len(s.types))
	for res := range resultsChan {
		if res.err != nil {
			if errors.Is(res.err, model.ErrPOINotFound) {
				continue
			}
			return nil, fmt.Errorf("nearest %s lookup: %w", res.poiType, res.err)
		}
		if res.poi.DistanceM > s.horizonM {
			// Beyond the search horizon counts as not found.
			continue
		}
		found[res.poiType] = res.poi
	}

	foundTypes := make([]model.POIType, 0, len(found))
	for _, t := range s.types {
		if _, ok := found[t]; ok {
			foundTypes = append(foundTypes, t)
		}
	}
	renormalized := s.weights.Renormalize(foundTypes)

	components := make([]model.ScoreComponent, 0, len(s.types))
	total := 0.0
	for _, t := range s.types {
		poi, ok := found[t]
		if !ok {
			components = append(components, model.ScoreComponent{POIType: t})
			continue
		}

		subscore, err := s.decay.Subscore(t, poi.DistanceM)
		if err != nil {
			return nil, err
		}
		weight := renormalized[t]
		total += subscore * weight

		distance := model.Round2(poi.DistanceM)
		name := poi.Name
		components = append(components, model.ScoreComponent{
			POIType:              t,
			DistanceM:            &distance,
			Subscore:             model.Round2(subscore),
			Weight:               weight,
			WeightedContribution: model.Round2(subscore * weight),
			NearestName:          &name,
		})
	}

	return &model.ScoreResult{
		Score:        model.Round2(clamp(total, 0, 100)),
		ModelVersion: s.modelVersion,
		Lat:          lat,
		Lng:          lng,
		Components:   components,
	}, nil
}

// ValidateCoordinate rejects coordinates outside WGS84 bounds before any
// I/O is attempted.
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be within [-90,90], got %v", model.ErrInvalidInput, lat)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be within [-180,180], got %v", model.ErrInvalidInput, lng)
	}
	return nil
}
