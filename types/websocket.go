package types

const (
	TypeWebsocketPing = "ping"
	TypeWebsocketPong = "pong"
	TypeWebsocketChat = "chat"
)

type WebSocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChatResponse struct {
	Message string `json:"message"`
}
