package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker is the slice of the database client the health endpoint
// needs.
type HealthChecker interface {
	HealthCheck() error
}

// HealthHandler serves service health and info endpoints.
type HealthHandler struct {
	db           HealthChecker
	modelVersion string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db HealthChecker, modelVersion string) *HealthHandler {
	return &HealthHandler{db: db, modelVersion: modelVersion}
}

// GetHealth handles GET /health.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbOK := h.db.HealthCheck() == nil

	status := "ok"
	if !dbOK {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": dbOK,
		"version":  h.modelVersion,
	})
}

// GetRoot handles GET /.
func (h *HealthHandler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":   "SafeMap API",
		"health": "/health",
		"score":  "/score",
		"grid":   "/grid",
	})
}
