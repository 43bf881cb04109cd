package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/companioncall/signaling/internal/app"
	"github.com/companioncall/signaling/internal/domain"
)

type createRoomRequest struct {
	UserID      string `json:"userId"`
	CompanionID string `json:"companionId"`
}

func (f *Facade) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid userId"})
		return
	}

	room := f.Rooms.Create(domain.UserID(req.UserID), req.CompanionID)
	c.JSON(http.StatusOK, room)
}

func (f *Facade) handleGetRoom(c *gin.Context) {
	roomID := domain.RoomID(c.Param("id"))

	room, err := f.Rooms.Get(roomID)
	switch {
	case errors.Is(err, app.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, app.ErrRoomGone):
		c.JSON(http.StatusGone, gin.H{"error": "Room has expired"})
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(roomID)).Msg("get room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, room)
	}
}
