package types

import "time"

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatMessage is a single turn of a conversation. Messages live in process
// memory only, for the lifetime of the session.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a correlation token handed to the client. No server-side session
// record exists beyond the lazily created transcript.
type Session struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity carries the caller identity decoded from the auth provider's
// bearer token. The zero value means anonymous.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

type ChatRequest struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

type ChatResponse struct {
	SessionID string      `json:"sessionId"`
	Message   ChatMessage `json:"message"`
}

type HistoryResponse struct {
	SessionID string        `json:"sessionId"`
	Messages  []ChatMessage `json:"messages"`
}
