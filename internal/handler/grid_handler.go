package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"SafeMap-App/internal/config"
	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/usecase"
)

// Norway bounding box, the service's coverage area.
const (
	norwayMinLng = 4.0
	norwayMaxLng = 32.0
	norwayMinLat = 57.0
	norwayMaxLat = 72.0
)

// GridHandler serves the aggregated grid-score endpoints.
type GridHandler struct {
	gridUseCase usecase.GridUseCase
	scoringCfg  *config.ScoringConfig
}

// NewGridHandler creates a new GridHandler.
func NewGridHandler(gridUseCase usecase.GridUseCase, scoringCfg *config.ScoringConfig) *GridHandler {
	return &GridHandler{gridUseCase: gridUseCase, scoringCfg: scoringCfg}
}

// GetGrid handles GET /grid?bbox=minLng,minLat,maxLng,maxLat&resolution=500.
// A zoom parameter may be given instead of resolution; it is mapped through
// the configured zoom/resolution table.
func (h *GridHandler) GetGrid(c *gin.Context) {
	bbox, err := parseBBox(c.Query("bbox"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid bbox",
			"details": err.Error(),
		})
		return
	}

	resolution, err := h.parseResolution(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid resolution",
			"details": err.Error(),
		})
		return
	}

	// Coverage is Norway only; reject queries elsewhere before doing work.
	if bbox.MinLng < norwayMinLng || bbox.MinLng > norwayMaxLng ||
		bbox.MinLat < norwayMinLat || bbox.MinLat > norwayMaxLat {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "coordinates outside Norway",
		})
		return
	}

	response, err := h.gridUseCase.GetGrid(c.Request.Context(), model.GridRequest{
		BBox:        *bbox,
		ResolutionM: resolution,
	})
	if err != nil {
		respondScoringError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetResolutions handles GET /grid/resolutions.
func (h *GridHandler) GetResolutions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"grid_resolutions": h.scoringCfg.GridResolutions,
	})
}

// parseResolution resolves the cell size from resolution or zoom.
func (h *GridHandler) parseResolution(c *gin.Context) (int, error) {
	if raw := c.Query("resolution"); raw != "" {
		resolution, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &ValidationError{Field: "resolution", Message: "must be an integer"}
		}
		if resolution < 100 || resolution > 10000 {
			return 0, &ValidationError{Field: "resolution", Message: "must be between 100 and 10000 meters"}
		}
		return resolution, nil
	}

	if raw := c.Query("zoom"); raw != "" {
		zoom, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &ValidationError{Field: "zoom", Message: "must be an integer"}
		}
		return h.scoringCfg.ResolutionForZoom(zoom), nil
	}

	return 500, nil
}

// parseBBox parses "minLng,minLat,maxLng,maxLat".
func parseBBox(raw string) (*model.BoundingBox, error) {
	if raw == "" {
		return nil, &ValidationError{Field: "bbox", Message: "query parameter is required"}
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, &ValidationError{Field: "bbox", Message: "must have 4 comma-separated values"}
	}

	values := make([]float64, 4)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, &ValidationError{Field: "bbox", Message: "values must be numbers"}
		}
		values[i] = value
	}

	bbox := &model.BoundingBox{MinLng: values[0], MinLat: values[1], MaxLng: values[2], MaxLat: values[3]}
	if !bbox.Valid() {
		return nil, &ValidationError{Field: "bbox", Message: "must satisfy minLng < maxLng and minLat < maxLat"}
	}
	return bbox, nil
}
