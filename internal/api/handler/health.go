package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	ocrProvider string
	model       string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ocrProvider, model string) *HealthHandler {
	return &HealthHandler{ocrProvider: ocrProvider, model: model}
}

// Health returns the health status of the service
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ocr":    h.ocrProvider,
		"model":  h.model,
	})
}
