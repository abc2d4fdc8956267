package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/usecase"
)

// POIHandler serves POI listing endpoints for the map UI.
type POIHandler struct {
	poiUseCase usecase.POIUseCase
}

// NewPOIHandler creates a new POIHandler.
func NewPOIHandler(poiUseCase usecase.POIUseCase) *POIHandler {
	return &POIHandler{poiUseCase: poiUseCase}
}

// GetPOIs handles GET /pois?poi_type=&bbox=&limit=.
func (h *POIHandler) GetPOIs(c *gin.Context) {
	filter := model.POIFilter{Limit: 100}

	if raw := c.Query("poi_type"); raw != "" {
		filter.Type = model.POIType(raw)
	}

	if raw := c.Query("bbox"); raw != "" {
		bbox, err := parseBBox(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid bbox",
				"details": err.Error(),
			})
			return
		}
		filter.BBox = bbox
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid limit",
				"details": "limit must be an integer between 1 and 1000",
			})
			return
		}
		filter.Limit = limit
	}

	pois, err := h.poiUseCase.List(c.Request.Context(), filter)
	if err != nil {
		respondScoringError(c, err)
		return
	}

	response := gin.H{
		"pois":  pois,
		"count": len(pois),
	}
	if filter.Type != "" {
		response["poi_type"] = filter.Type
	}
	c.JSON(http.StatusOK, response)
}

// GetPOIStats handles GET /pois/stats.
func (h *POIHandler) GetPOIStats(c *gin.Context) {
	stats, err := h.poiUseCase.Stats(c.Request.Context())
	if err != nil {
		respondScoringError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
