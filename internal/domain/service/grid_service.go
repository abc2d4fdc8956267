package service

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"SafeMap-App/internal/domain/model"
)

// metersPerDegreeLat is the approximate north-south extent of one degree of
// latitude, used to convert a resolution in meters into degree-sized cells.
const metersPerDegreeLat = 111320.0

// GridTiler tiles a bounding box into a regular lattice of cells. Tiling is
// pure geometry: scoring and caching are layered on top by the grid usecase.
type GridTiler struct {
	maxCells int
}

// NewGridTiler creates a tiler that rejects lattices larger than maxCells.
func NewGridTiler(maxCells int) *GridTiler {
	return &GridTiler{maxCells: maxCells}
}

// Tile enumerates the cells covering bbox at resolutionM meters per cell
// edge, in row-major order: south-to-north rows, west-to-east columns. The
// cell size in degrees is approximated at the bbox center latitude; minor
// overlap past the bbox edge on the last row/column is tolerated.
//
// All validation happens here, before any I/O is attempted by callers.
func (g *GridTiler) Tile(bbox model.BoundingBox, resolutionM int) ([]model.GridCell, error) {
	if math.IsNaN(bbox.MinLat) || math.IsNaN(bbox.MinLng) || math.IsNaN(bbox.MaxLat) || math.IsNaN(bbox.MaxLng) {
		return nil, fmt.Errorf("%w: bbox coordinates must be numbers", model.ErrInvalidInput)
	}
	if !bbox.Valid() {
		return nil, fmt.Errorf("%w: bbox must satisfy min_lng < max_lng and min_lat < max_lat", model.ErrInvalidInput)
	}
	if bbox.MinLat < -90 || bbox.MaxLat > 90 || bbox.MinLng < -180 || bbox.MaxLng > 180 {
		return nil, fmt.Errorf("%w: bbox must be within WGS84 bounds", model.ErrInvalidInput)
	}
	if resolutionM <= 0 {
		return nil, fmt.Errorf("%w: resolution_m must be positive, got %d", model.ErrInvalidInput, resolutionM)
	}

	centerLat := (bbox.MinLat + bbox.MaxLat) / 2
	cellLat := float64(resolutionM) / metersPerDegreeLat
	cellLng := float64(resolutionM) / (metersPerDegreeLat * math.Cos(centerLat*math.Pi/180))

	// The epsilon keeps a bbox that is an exact multiple of the resolution
	// at exactly N cells instead of N+1.
	nRows := int(math.Ceil((bbox.MaxLat-bbox.MinLat)/cellLat - 1e-9))
	nCols := int(math.Ceil((bbox.MaxLng-bbox.MinLng)/cellLng - 1e-9))
	if nRows < 1 {
		nRows = 1
	}
	if nCols < 1 {
		nCols = 1
	}

	if int64(nRows)*int64(nCols) > int64(g.maxCells) {
		return nil, fmt.Errorf("%w: grid of %d cells exceeds the maximum of %d; reduce the bbox or coarsen the resolution",
			model.ErrInvalidInput, nRows*nCols, g.maxCells)
	}

	cells := make([]model.GridCell, 0, nRows*nCols)
	for row := 0; row < nRows; row++ {
		minLat := bbox.MinLat + float64(row)*cellLat
		for col := 0; col < nCols; col++ {
			minLng := bbox.MinLng + float64(col)*cellLng
			bound := orb.Bound{
				Min: orb.Point{minLng, minLat},
				Max: orb.Point{minLng + cellLng, minLat + cellLat},
			}
			cells = append(cells, model.GridCell{
				Row:   row,
				Col:   col,
				Bound: bound,
				Centroid: model.LatLng{
					Lat: minLat + cellLat/2,
					Lng: minLng + cellLng/2,
				},
				ResolutionM: resolutionM,
			})
		}
	}
	return cells, nil
}
