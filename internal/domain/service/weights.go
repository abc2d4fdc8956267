package service

import (
	"fmt"
	"math"

	"SafeMap-App/internal/domain/model"
)

// WeightTable holds the per-POI-type weights of the scoring model,
// validated to sum to 1.0 within tolerance at construction.
type WeightTable struct {
	weights map[model.POIType]float64
}

// NewWeightTable validates and wraps a weight mapping.
func NewWeightTable(weights map[model.POIType]float64) (*WeightTable, error) {
	if len(weights) == 0 {
		return nil, &model.ConfigError{Field: "weights", Message: "must not be empty"}
	}
	sum := 0.0
	for t, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return nil, &model.ConfigError{Field: "weights." + string(t), Message: "must be non-negative"}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return nil, &model.ConfigError{
			Field:   "weights",
			Message: fmt.Sprintf("must sum to 1.0, got %.8f", sum),
		}
	}
	copied := make(map[model.POIType]float64, len(weights))
	for t, w := range weights {
		copied[t] = w
	}
	return &WeightTable{weights: copied}, nil
}

// Weight returns the configured weight for a POI type, 0 if unknown.
func (w *WeightTable) Weight(poiType model.POIType) float64 {
	return w.weights[poiType]
}

// Renormalize rescales the weights of the given subset of POI types so they
// sum to 1. Sparse data (a type with no POI within the horizon) therefore
// redistributes its weight over the types that were found instead of
// silently under-scoring the point. An empty or zero-weight subset yields an
// empty map.
func (w *WeightTable) Renormalize(found []model.POIType) map[model.POIType]float64 {
	sum := 0.0
	for _, t := range found {
		sum += w.weights[t]
	}
	out := make(map[model.POIType]float64, len(found))
	if sum <= 0 {
		return out
	}
	for _, t := range found {
		out[t] = w.weights[t] / sum
	}
	return out
}
