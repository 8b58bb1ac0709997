package service

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lerhino/rhino-be/types"
)

// Client serializes writes to one websocket connection. gorilla/websocket
// allows a single concurrent writer, and both the hub and the connection's
// read loop (pongs) write.
type Client struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks websocket subscribers per chat session so an asynchronously
// delivered reply can be pushed immediately instead of waiting for the next
// poll. Polling stays the contract; the socket is an optimization.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(sessionID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*Client]struct{})
	}
	h.conns[sessionID][client] = struct{}{}
}

func (h *Hub) Unregister(sessionID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.conns[sessionID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.conns, sessionID)
		}
	}
}

// Broadcast pushes a reply to the session's subscribers. An empty session id
// means the callback was untagged, so every subscriber gets it. The
// connection set is snapshotted under the hub lock and written outside it,
// so one slow client never stalls registration or other broadcasts.
func (h *Hub) Broadcast(sessionID, message string) {
	h.mu.Lock()
	var targets []*Client
	if sessionID == "" {
		for _, set := range h.conns {
			for client := range set {
				targets = append(targets, client)
			}
		}
	} else {
		for client := range h.conns[sessionID] {
			targets = append(targets, client)
		}
	}
	h.mu.Unlock()

	frame := types.WebSocketResponse{
		Type:    types.TypeWebsocketChat,
		Payload: types.WebSocketChatResponse{Message: message},
	}
	for _, client := range targets {
		if err := client.WriteJSON(frame); err != nil {
			log.Println("Write error:", err)
		}
	}
}
