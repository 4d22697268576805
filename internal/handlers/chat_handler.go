package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAssistantStatus reports the readiness of the chat engine so the UI can
// show a loading indicator.
func (h *Handler) GetAssistantStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistant.Status())
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat streams the assistant's reply as server-sent events. Each fragment
// arrives as {"chunk": "..."}; the stream ends with {"done": true} or, on an
// engine failure, {"error": "..."} followed by done.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	chunks := h.assistant.Query(c.Request.Context(), req.Message)

	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-chunks
		if !ok {
			c.SSEvent("message", gin.H{"done": true})
			return false
		}
		if chunk.Err != nil {
			c.SSEvent("message", gin.H{"error": chunk.Err.Error()})
			return true
		}
		c.SSEvent("message", gin.H{"chunk": chunk.Text})
		return true
	})
}
