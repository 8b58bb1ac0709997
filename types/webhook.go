package types

import (
	"encoding/json"
	"time"
)

// WebhookPayload is the body posted to the n8n webhook. Identity fields are
// filled from the caller's bearer token when one was presented and omitted
// otherwise.
type WebhookPayload struct {
	ChatInput string     `json:"chatInput"`
	SessionID string     `json:"sessionId"`
	UserID    string     `json:"userId,omitempty"`
	UserEmail string     `json:"userEmail,omitempty"`
	UserName  string     `json:"userName,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// MailboxEntry holds one asynchronously delivered workflow reply until a
// consumer takes it.
type MailboxEntry struct {
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	RawData   json.RawMessage `json:"rawData,omitempty"`
}
