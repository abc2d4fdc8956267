package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/usecase"
)

// ScoreHandler serves the point safety-score endpoint.
type ScoreHandler struct {
	scoreUseCase usecase.ScoreUseCase
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scoreUseCase usecase.ScoreUseCase) *ScoreHandler {
	return &ScoreHandler{scoreUseCase: scoreUseCase}
}

// GetScore handles GET /score?lat=..&lng=..
func (h *ScoreHandler) GetScore(c *gin.Context) {
	lat, err := parseFloatParam(c, "lat")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}
	lng, err := parseFloatParam(c, "lng")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	result, err := h.scoreUseCase.GetScore(c.Request.Context(), lat, lng)
	if err != nil {
		respondScoringError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseFloatParam reads a required float query parameter.
func parseFloatParam(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, &ValidationError{Field: name, Message: "query parameter is required"}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ValidationError{Field: name, Message: "must be a number"}
	}
	return value, nil
}

// respondScoringError maps engine errors onto HTTP status codes.
func respondScoringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
	case errors.Is(err, model.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "upstream unavailable, retry later",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "score calculation failed",
			"details": err.Error(),
		})
	}
}

// ValidationError describes a rejected request parameter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
