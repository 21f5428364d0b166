package handlers

import (
	"net/http"

	"rag-api/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	health *services.HealthService
}

func NewHealthHandler(health *services.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Check handles the GET /health endpoint
func (h *HealthHandler) Check() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.health.Check(c.Request.Context())

		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"service":     "rag-api",
			"healthy":     status.Healthy,
			"weaviate":    status.Weaviate,
			"redis":       status.Redis,
			"queued_jobs": status.QueuedJobs,
		})
	}
}
