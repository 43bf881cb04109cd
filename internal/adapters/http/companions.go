package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// handleCompanions proxies the external persona directory verbatim.
func (f *Facade) handleCompanions(c *gin.Context) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, f.Cfg.PersonaAPIURL, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch companions: %v", err)})
		return
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("persona proxy")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch companions: %v", err)})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("module", "adapters.http").Msg("persona proxy upstream status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch companions: upstream status %d", resp.StatusCode)})
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch companions: %v", err)})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
