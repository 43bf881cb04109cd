package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/companioncall/signaling/internal/domain"
)

// handleUploadRecording stores an uploaded call recording and returns
// its retrieval URL. Cloud storage is out of scope; files land on the
// local disk under the configured directory.
func (f *Facade) handleUploadRecording(c *gin.Context) {
	roomID := c.PostForm("roomId")
	if roomID == "" || !f.Rooms.Exists(domain.RoomID(roomID)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	if err := os.MkdirAll(f.Cfg.RecordingsDir, 0o755); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("recordings dir")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store recording"})
		return
	}

	recordingID := uuid.NewString()
	name := fmt.Sprintf("%s_%s", recordingID, filepath.Base(file.Filename))
	dst := filepath.Join(f.Cfg.RecordingsDir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", dst).Msg("save recording")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store recording"})
		return
	}

	log.Info().Str("module", "adapters.http").Str("room", roomID).Str("recording", recordingID).Msg("recording stored")
	c.JSON(http.StatusOK, gin.H{
		"recordingId": recordingID,
		"roomId":      roomID,
		"url":         "/recordings/" + name,
	})
}
