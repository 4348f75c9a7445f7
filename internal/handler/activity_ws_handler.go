package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/edututor/edututor-backend/internal/middleware"
	"github.com/edututor/edututor-backend/internal/service"
	ws "github.com/edututor/edututor-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const pingInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ActivityWSHandler streams student submissions to educators in real time.
type ActivityWSHandler struct {
	activityService *service.ActivityService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewActivityWSHandler creates a new ActivityWSHandler.
func NewActivityWSHandler(activityService *service.ActivityService, log zerolog.Logger, allowedOrigins []string) *ActivityWSHandler {
	return &ActivityWSHandler{
		activityService: activityService,
		log:             log.With().Str("component", "activity_ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// ActivityStream godoc
// WS /ws/v1/educator/activity/stream
// Upgrades to WebSocket and pushes a message for every quiz submitted in
// this session until the educator disconnects.
func (h *ActivityWSHandler) ActivityStream(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	_, userID, _ := sess.Identity()
	wsLog := h.log.With().
		Str("session_id", sess.ID().String()).
		Str("educator_id", userID).
		Logger()
	wsLog.Info().Msg("Educator connected")

	events := h.activityService.Subscribe(sess.ID())
	defer h.activityService.Unsubscribe(sess.ID(), events)

	// Reader goroutine: we never expect client messages, but reading is
	// what surfaces the close frame.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Educator disconnected")
			return
		case event := <-events:
			if err := ws.WriteTyped(conn, ws.ActivityResponse{Event: ws.EventActivity, Data: event}); err != nil {
				wsLog.Warn().Err(err).Msg("Activity write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				wsLog.Debug().Msg("Ping failed, closing stream")
				return
			}
		}
	}
}
