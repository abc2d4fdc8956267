package model

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBox_Valid(t *testing.T) {
	assert.True(t, BoundingBox{MinLng: 10.70, MinLat: 59.90, MaxLng: 10.80, MaxLat: 59.95}.Valid())
	assert.False(t, BoundingBox{MinLng: 10.80, MinLat: 59.90, MaxLng: 10.70, MaxLat: 59.95}.Valid())
	assert.False(t, BoundingBox{MinLng: 10.70, MinLat: 59.95, MaxLng: 10.80, MaxLat: 59.90}.Valid())
	assert.False(t, BoundingBox{MinLng: 10.70, MinLat: 59.90, MaxLng: 10.70, MaxLat: 59.95}.Valid())
}

func TestGridCell_Polygon(t *testing.T) {
	cell := GridCell{
		Bound: orb.Bound{
			Min: orb.Point{10.70, 59.90},
			Max: orb.Point{10.71, 59.91},
		},
	}

	polygon := cell.Polygon()
	require.Len(t, polygon, 1)
	ring := polygon[0]
	require.Len(t, ring, 5)

	assert.Equal(t, ring[0], ring[len(ring)-1], "ring must be closed")
	assert.True(t, ring.Closed())
	assert.Equal(t, orb.Point{10.70, 59.90}, ring[0])
	assert.Equal(t, orb.Point{10.71, 59.90}, ring[1])
	assert.Equal(t, orb.Point{10.71, 59.91}, ring[2])
	assert.Equal(t, orb.Point{10.70, 59.91}, ring[3])
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 85.71, Round2(85.7142857))
	assert.Equal(t, 93.33, Round2(93.3333333))
	assert.Equal(t, 0.0, Round2(0.004))
	assert.Equal(t, 100.0, Round2(99.999))
}
