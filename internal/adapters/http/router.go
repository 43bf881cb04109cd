// Package http is the REST facade plus the websocket entry point.
// Everything here is stateless request/response glue over the shared
// room registry; the real-time core lives in app/orch.
package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/companioncall/signaling/internal/adapters/signal"
	"github.com/companioncall/signaling/internal/app"
	"github.com/companioncall/signaling/internal/app/orch"
	"github.com/companioncall/signaling/internal/config"
)

const version = "1.0"

// Facade bundles the handlers' shared collaborators.
type Facade struct {
	Cfg    *config.Config
	Rooms  *app.RoomRegistry
	Hub    *signal.Hub
	Client *http.Client
}

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware guarantees every browser carries a stable
// opaque token; it doubles as the websocket session handle.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, f *Facade, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CompanionCall", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "AI Companion Video Call API",
			"version": version,
		})
	})
	r.GET("/health", f.handleHealth)
	r.Static("/recordings", cfg.RecordingsDir)

	api := r.Group("/api")
	api.POST("/video/rooms", f.handleCreateRoom)
	api.GET("/video/rooms/:id", f.handleGetRoom)
	api.GET("/webrtc/config", f.handleWebRTCConfig)
	api.GET("/companions", f.handleCompanions)
	api.POST("/chat/messages", f.handleChatMessage)
	api.POST("/video/recordings", f.handleUploadRecording)

	ctl := signal.NewController(o, f.Hub, cfg.ReadLimit, cfg.PingPeriod)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	return r
}
