package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (f *Facade) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"active_rooms": f.Rooms.Count(),
		"connections":  f.Hub.ConnCount(),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
