package service

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Cache key construction for the point and grid score caches. Keys embed the
// model version, so bumping model_version in the scoring config abandons all
// previously cached entries without an explicit purge.

// PointCacheKey buckets a coordinate to 4 decimal places (~11 m of latitude)
// and combines it with the model version. Nearby queries inside the same
// bucket share one cache entry; the bucket edge is far finer than any
// configured decay curve reacts to, so the precision loss is a deliberate
// cost tradeoff rather than an accuracy problem.
func PointCacheKey(lat, lng float64, modelVersion string) string {
	return fmt.Sprintf("p:%.4f:%.4f:%s", lat, lng, modelVersion)
}

// CellCacheKey identifies a grid cell by its southwest corner quantized to
// 1e-6 degrees plus resolution and model version. Quantized integers, not
// raw floating polygon coordinates, guarantee cache hits across requests
// that produce the same tiling.
func CellCacheKey(cell orb.Bound, resolutionM int, modelVersion string) string {
	swLat := int64(math.Round(cell.Min.Lat() * 1e6))
	swLng := int64(math.Round(cell.Min.Lon() * 1e6))
	return fmt.Sprintf("g:%d:%d:%d:%s", swLat, swLng, resolutionM, modelVersion)
}
