package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler wires the game endpoints into gin. Cross-origin policy is
// enforced by middleware upstream, so the upgrader accepts any origin.
type Handler struct {
	dispatcher *Dispatcher
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

func NewHandler(d *Dispatcher, log zerolog.Logger) *Handler {
	return &Handler{
		dispatcher: d,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts the game routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ws", h.ConnectHandler)
	r.GET("/rooms/code", h.RoomCodeHandler)
}

// ConnectHandler upgrades the request and runs the session until the socket
// closes. The connection identifier is minted here and echoed back in the
// welcome message.
func (h *Handler) ConnectHandler(ctx *gin.Context) {
	sock, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}
	id := uuid.NewString()
	NewSession(id, newWSConn(sock), h.dispatcher, h.log).Run()
}

// RoomCodeHandler mints an unused room code for clients that do not bring
// their own.
func (h *Handler) RoomCodeHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"code": NewRoomCode()})
}
