package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

type webRTCConfigResponse struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

// handleWebRTCConfig assembles the ICE server list clients feed into
// RTCPeerConnection. The two Google STUN entries are always present;
// TURN is appended only when both credentials are configured.
func (f *Facade) handleWebRTCConfig(c *gin.Context) {
	servers := []webrtc.ICEServer{
		{URLs: []string{"stun:stun.l.google.com:19302"}},
		{URLs: []string{"stun:stun1.l.google.com:19302"}},
	}

	if f.Cfg.TurnUsername != "" && f.Cfg.TurnCredential != "" {
		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{f.Cfg.TurnURL},
			Username:   f.Cfg.TurnUsername,
			Credential: f.Cfg.TurnCredential,
		})
	}

	c.JSON(http.StatusOK, webRTCConfigResponse{ICEServers: servers})
}
