package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SafeMap-App/internal/domain/model"
)

// osloBBox builds a bbox anchored at Oslo whose sides span exactly
// widthM x heightM meters under the tiler's degree approximation.
func osloBBox(widthM, heightM float64) model.BoundingBox {
	const minLat, minLng = 59.90, 10.70
	latSpan := heightM / metersPerDegreeLat
	// The tiler sizes cells at the bbox center latitude, which itself
	// depends on the latitude span, so compute the center first.
	centerLat := minLat + latSpan/2
	lngSpan := widthM / (metersPerDegreeLat * math.Cos(centerLat*math.Pi/180))
	return model.BoundingBox{
		MinLng: minLng,
		MinLat: minLat,
		MaxLng: minLng + lngSpan,
		MaxLat: minLat + latSpan,
	}
}

func TestGridTiler_Tile(t *testing.T) {
	tiler := NewGridTiler(5000)

	t.Run("1km square at 500m resolution yields exactly 4 cells", func(t *testing.T) {
		cells, err := tiler.Tile(osloBBox(1000, 1000), 500)
		require.NoError(t, err)
		require.Len(t, cells, 4)
	})

	t.Run("cells come out row-major, south to north then west to east", func(t *testing.T) {
		bbox := osloBBox(1500, 1000)
		cells, err := tiler.Tile(bbox, 500)
		require.NoError(t, err)
		require.Len(t, cells, 6)

		expected := []struct{ row, col int }{
			{0, 0}, {0, 1}, {0, 2},
			{1, 0}, {1, 1}, {1, 2},
		}
		for i, e := range expected {
			assert.Equal(t, e.row, cells[i].Row, "cell %d row", i)
			assert.Equal(t, e.col, cells[i].Col, "cell %d col", i)
		}

		// First cell sits on the bbox southwest corner, last cell closes on
		// the northeast corner.
		first, last := cells[0], cells[len(cells)-1]
		assert.InDelta(t, bbox.MinLng, first.Bound.Min.Lon(), 1e-12)
		assert.InDelta(t, bbox.MinLat, first.Bound.Min.Lat(), 1e-12)
		assert.InDelta(t, bbox.MaxLng, last.Bound.Max.Lon(), 1e-6)
		assert.InDelta(t, bbox.MaxLat, last.Bound.Max.Lat(), 1e-6)
	})

	t.Run("centroid sits in the middle of its cell", func(t *testing.T) {
		cells, err := tiler.Tile(osloBBox(500, 500), 500)
		require.NoError(t, err)
		require.Len(t, cells, 1)

		c := cells[0]
		assert.InDelta(t, (c.Bound.Min.Lat()+c.Bound.Max.Lat())/2, c.Centroid.Lat, 1e-12)
		assert.InDelta(t, (c.Bound.Min.Lon()+c.Bound.Max.Lon())/2, c.Centroid.Lng, 1e-12)
	})

	t.Run("bbox smaller than one cell still yields one cell", func(t *testing.T) {
		cells, err := tiler.Tile(osloBBox(50, 50), 500)
		require.NoError(t, err)
		assert.Len(t, cells, 1)
	})

	t.Run("oversized grid is rejected up front", func(t *testing.T) {
		small := NewGridTiler(4)
		_, err := small.Tile(osloBBox(2000, 2000), 500) // 16 cells
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("degenerate bbox is rejected", func(t *testing.T) {
		_, err := tiler.Tile(model.BoundingBox{MinLng: 10.8, MinLat: 59.9, MaxLng: 10.7, MaxLat: 60.0}, 500)
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = tiler.Tile(model.BoundingBox{MinLng: 10.7, MinLat: 59.9, MaxLng: 10.7, MaxLat: 59.9}, 500)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("NaN coordinates are rejected", func(t *testing.T) {
		_, err := tiler.Tile(model.BoundingBox{MinLng: math.NaN(), MinLat: 59.9, MaxLng: 10.8, MaxLat: 60.0}, 500)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("non-positive resolution is rejected", func(t *testing.T) {
		bbox := osloBBox(1000, 1000)
		for _, res := range []int{0, -500} {
			_, err := tiler.Tile(bbox, res)
			assert.ErrorIs(t, err, model.ErrInvalidInput, "resolution %d", res)
		}
	})

	t.Run("bbox outside WGS84 is rejected", func(t *testing.T) {
		_, err := tiler.Tile(model.BoundingBox{MinLng: 10, MinLat: 89, MaxLng: 11, MaxLat: 91}, 500)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestGridTiler_CellsCoverBBox(t *testing.T) {
	tiler := NewGridTiler(5000)
	bbox := osloBBox(3000, 2000)
	cells, err := tiler.Tile(bbox, 500)
	require.NoError(t, err)
	require.Len(t, cells, 24)

	for _, c := range cells {
		assert.GreaterOrEqual(t, c.Bound.Min.Lat(), bbox.MinLat-1e-9)
		assert.GreaterOrEqual(t, c.Bound.Min.Lon(), bbox.MinLng-1e-9)
		// The last row/column may overhang slightly past the bbox edge,
		// but never by more than one cell.
		assert.Less(t, c.Bound.Min.Lat(), bbox.MaxLat)
		assert.Less(t, c.Bound.Min.Lon(), bbox.MaxLng)
	}
}
