package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleSessionEvents streams engine events to the frontend as server-sent
// events. The stream spans sessions; it ends when the client disconnects.
func (s *Server) handleSessionEvents(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	events, unsubscribe := s.engine.Subscribe(16)
	defer unsubscribe()

	for {
		select {
		case event := <-events:
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Debug("failed to marshal event", "error", err)
				continue
			}

			c.Writer.Write([]byte("data: "))
			c.Writer.Write(data)
			c.Writer.Write([]byte("\n\n"))
			flusher.Flush()

		case <-c.Request.Context().Done():
			return
		}
	}
}
