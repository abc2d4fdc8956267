package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SafeMap-App/internal/domain/model"
)

type fakePOIUseCase struct {
	pois  []model.POI
	stats *model.POIStats
	err   error

	gotFilter model.POIFilter
}

func (f *fakePOIUseCase) List(_ context.Context, filter model.POIFilter) ([]model.POI, error) {
	f.gotFilter = filter
	return f.pois, f.err
}

func (f *fakePOIUseCase) Stats(context.Context) (*model.POIStats, error) {
	return f.stats, f.err
}

func poiRouter(uc *fakePOIUseCase) *gin.Engine {
	router := gin.New()
	h := NewPOIHandler(uc)
	router.GET("/pois", h.GetPOIs)
	router.GET("/pois/stats", h.GetPOIStats)
	return router
}

func TestPOIHandler_GetPOIs(t *testing.T) {
	t.Run("lists POIs with filters applied", func(t *testing.T) {
		uc := &fakePOIUseCase{pois: []model.POI{
			{ID: "a", Type: model.POITypeFire, Name: "Oslo brannstasjon"},
			{ID: "b", Type: model.POITypeFire, Name: "Bergen brannstasjon"},
		}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/pois?poi_type=fire&bbox=10.70,59.90,10.80,59.95&limit=50", nil)
		poiRouter(uc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.POITypeFire, uc.gotFilter.Type)
		assert.Equal(t, 50, uc.gotFilter.Limit)
		require.NotNil(t, uc.gotFilter.BBox)
		assert.Equal(t, 10.70, uc.gotFilter.BBox.MinLng)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(2), body["count"])
		assert.Equal(t, "fire", body["poi_type"])
	})

	t.Run("limit defaults to 100", func(t *testing.T) {
		uc := &fakePOIUseCase{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/pois", nil)
		poiRouter(uc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 100, uc.gotFilter.Limit)
	})

	t.Run("out-of-range limit is a 400", func(t *testing.T) {
		for _, target := range []string{"/pois?limit=0", "/pois?limit=1001", "/pois?limit=many"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, target, nil)
			poiRouter(&fakePOIUseCase{}).ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
		}
	})

	t.Run("malformed bbox is a 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/pois?bbox=10.70,59.90", nil)
		poiRouter(&fakePOIUseCase{}).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure maps to 503", func(t *testing.T) {
		uc := &fakePOIUseCase{err: model.ErrUpstreamUnavailable}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/pois", nil)
		poiRouter(uc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestPOIHandler_GetPOIStats(t *testing.T) {
	uc := &fakePOIUseCase{stats: &model.POIStats{
		Counts: map[model.POIType]int{
			model.POITypeFire:     600,
			model.POITypeHospital: 80,
			model.POITypePolice:   200,
		},
		Total: 880,
	}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pois/stats", nil)
	poiRouter(uc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Counts map[string]int `json:"poi_counts"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 880, body.Total)
	assert.Equal(t, 600, body.Counts["fire"])
}
