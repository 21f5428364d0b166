package handlers

import (
	"net/http"

	"rag-api/internal/services"

	"github.com/gin-gonic/gin"
)

type QueryHandler struct {
	query *services.QueryService
}

func NewQueryHandler(query *services.QueryService) *QueryHandler {
	return &QueryHandler{query: query}
}

// Ask handles the POST /api/v1/query endpoint. The response is a
// Server-Sent Events stream; each event name matches the payload type.
func (h *QueryHandler) Ask() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "query is required",
			})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")
		c.Writer.WriteHeader(http.StatusOK)
		c.Writer.Flush()

		ctx := c.Request.Context()

		h.query.Answer(ctx, req, func(event services.StreamEvent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.SSEvent(string(event.EventType()), event)
			c.Writer.Flush()
			return nil
		})
	}
}
