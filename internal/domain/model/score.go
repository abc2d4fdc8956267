package model

import "math"

// ScoreComponent is the per-POI-type part of a score breakdown.
// DistanceM and NearestName are nil when no POI of the type was found within
// the search horizon; a missing type contributes subscore 0 and weight 0.
type ScoreComponent struct {
	POIType              POIType  `json:"poi_type"`
	DistanceM            *float64 `json:"distance_m"`
	Subscore             float64  `json:"subscore"`
	Weight               float64  `json:"weight"`
	WeightedContribution float64  `json:"weighted_contribution"`
	NearestName          *string  `json:"nearest_name"`
}

// Found reports whether a POI of this type was located.
func (c ScoreComponent) Found() bool {
	return c.DistanceM != nil
}

// ScoreResult is the complete safety score for one point.
// Components are ordered canonically (AllPOITypes order) so repeated queries
// produce identical output.
type ScoreResult struct {
	Score        float64          `json:"score"`
	ModelVersion string           `json:"model_version"`
	Lat          float64          `json:"lat"`
	Lng          float64          `json:"lng"`
	Components   []ScoreComponent `json:"components"`
}

// Round2 rounds to two decimal places, the fixed precision of every score
// value the API returns.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
