package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BoundingBox is a geographic bounding box in WGS84 degrees.
type BoundingBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Bound converts the bounding box to an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLng, b.MinLat},
		Max: orb.Point{b.MaxLng, b.MaxLat},
	}
}

// Valid reports whether the box spans a positive area.
func (b BoundingBox) Valid() bool {
	return b.MinLng < b.MaxLng && b.MinLat < b.MaxLat
}

// GridCell is one tile of a scored grid. Row/Col follow the row-major
// enumeration order: south-to-north rows, west-to-east columns.
type GridCell struct {
	Key         string       `json:"key"`
	Row         int          `json:"row"`
	Col         int          `json:"col"`
	Bound       orb.Bound    `json:"-"`
	Centroid    LatLng       `json:"centroid"`
	ResolutionM int          `json:"resolution_m"`
	Result      *ScoreResult `json:"result,omitempty"`
}

// Polygon returns the cell outline as a closed orb polygon (SW, SE, NE, NW).
func (c *GridCell) Polygon() orb.Polygon {
	return orb.Polygon{orb.Ring{
		c.Bound.Min,
		orb.Point{c.Bound.Max.Lon(), c.Bound.Min.Lat()},
		c.Bound.Max,
		orb.Point{c.Bound.Min.Lon(), c.Bound.Max.Lat()},
		c.Bound.Min,
	}}
}

// GridRequest is a validated grid scoring request.
type GridRequest struct {
	BBox        BoundingBox `json:"bbox"`
	ResolutionM int         `json:"resolution_m"`
}

// GridResponse is the GeoJSON FeatureCollection returned for a grid query,
// with the scoring metadata alongside.
type GridResponse struct {
	Type         string             `json:"type"`
	Features     []*geojson.Feature `json:"features"`
	ModelVersion string             `json:"model_version"`
	ResolutionM  int                `json:"resolution_m"`
	CellCount    int                `json:"cell_count"`
}
