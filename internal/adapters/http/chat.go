package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/companioncall/signaling/internal/domain"
)

type chatMessageRequest struct {
	RoomID string `json:"roomId"`
	From   string `json:"from"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// handleChatMessage acknowledges receipt only; nothing is persisted.
func (f *Facade) handleChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid roomId"})
		return
	}

	if !f.Rooms.Exists(domain.RoomID(req.RoomID)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"messageId": uuid.NewString(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
