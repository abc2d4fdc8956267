package service

import (
	"fmt"
	"math"

	"SafeMap-App/internal/config"
	"SafeMap-App/internal/domain/model"
)

// DecayModel maps a distance to a subscore in [0,100] per POI type.
//
// The curve is linear: 100 up to ideal_m, then a straight drop to floor at
// max_m, clamped to floor beyond. Linear was chosen over exponential so the
// score surface stays easy to reason about per POI type; any monotonic
// non-increasing curve satisfies the cache and aggregation layers.
type DecayModel struct {
	params map[model.POIType]config.DecayParams
}

// NewDecayModel builds a decay model from validated scoring configuration.
func NewDecayModel(cfg *config.ScoringConfig) *DecayModel {
	params := make(map[model.POIType]config.DecayParams, len(cfg.Decay))
	for t, p := range cfg.Decay {
		params[t] = p
	}
	return &DecayModel{params: params}
}

// Subscore computes the decay subscore for one POI type at distanceM meters.
// NaN or negative distances are rejected before any arithmetic.
func (m *DecayModel) Subscore(poiType model.POIType, distanceM float64) (float64, error) {
	if math.IsNaN(distanceM) || distanceM < 0 {
		return 0, fmt.Errorf("%w: distance for %s must be a non-negative number of meters, got %v",
			model.ErrInvalidInput, poiType, distanceM)
	}

	p, ok := m.params[poiType]
	if !ok {
		return 0, fmt.Errorf("%w: no decay parameters for POI type %q", model.ErrInvalidInput, poiType)
	}

	switch {
	case distanceM <= p.IdealM:
		return 100, nil
	case distanceM >= p.MaxM:
		return p.Floor, nil
	default:
		frac := (distanceM - p.IdealM) / (p.MaxM - p.IdealM)
		score := 100 - frac*(100-p.Floor)
		return clamp(score, p.Floor, 100), nil
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
