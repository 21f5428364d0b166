package handlers

import (
	"net/http"
	"time"

	"rag-api/internal/services"

	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	ingest *services.IngestService
}

func NewIngestHandler(ingest *services.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

type ingestRequest struct {
	URL string `json:"url" binding:"required"`
}

// SubmitJob handles the POST /api/v1/ingest endpoint. The document is
// processed asynchronously; the response carries the job id to poll.
func (h *IngestHandler) SubmitJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "url is required",
			})
			return
		}

		jobID, err := h.ingest.Submit(c.Request.Context(), req.URL)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"job_id":  jobID,
			"message": "Document queued for ingestion",
		})
	}
}

type jobResponse struct {
	JobID        string `json:"job_id"`
	URL          string `json:"url"`
	Status       string `json:"status"`
	QueuedAt     string `json:"queued_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// GetJobStatus handles the GET /api/v1/ingest/jobs/:job_id endpoint
func (h *IngestHandler) GetJobStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("job_id")

		job, err := h.ingest.GetJob(c.Request.Context(), jobID)
		if err != nil {
			c.Error(err)
			return
		}

		resp := jobResponse{
			JobID:        job.ID,
			URL:          job.SourceURL,
			Status:       job.Status,
			QueuedAt:     job.QueuedAt.Format(time.RFC3339),
			ErrorMessage: job.ErrorMessage,
		}
		if job.CompletedAt != nil {
			resp.CompletedAt = job.CompletedAt.Format(time.RFC3339)
		}

		c.JSON(http.StatusOK, resp)
	}
}
