package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lerhino/rhino-be/service"
	"github.com/lerhino/rhino-be/types"
)

// WSHandler upgrades clients that want replies pushed instead of polled. The
// connection is read-mostly: the hub writes, the client only pings.
type WSHandler struct {
	hub      *service.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *service.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (h *WSHandler) HandleConnection(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "sessionId query parameter is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	client := service.NewClient(conn)
	h.hub.Register(sessionID, client)
	defer h.hub.Unregister(sessionID, client)

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var req types.WebSocketRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		if req.Type == types.TypeWebsocketPing {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if err := client.WriteJSON(types.WebSocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				log.Println("Write error:", err)
			}
		}
	}
}
