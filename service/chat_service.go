package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lerhino/rhino-be/types"
)

var (
	ErrEmptyInput   = errors.New("chat input is empty")
	ErrReplyTimeout = errors.New("timed out waiting for workflow reply")
)

// workflowStartedAck is what n8n answers when the workflow will deliver its
// result through the callback endpoint instead of inline.
const workflowStartedAck = "Workflow was started"

const (
	defaultPollInterval = 2 * time.Second
	defaultReplyTimeout = 2 * time.Minute
)

// ChatService orchestrates a chat turn: relay the input, then either take the
// inline reply or poll the mailbox until the workflow calls back. Transcripts
// are kept in process memory only.
type ChatService struct {
	relay   *WebhookService
	mailbox *Mailbox

	pollInterval time.Duration
	replyTimeout time.Duration

	mu          sync.RWMutex
	transcripts map[string][]types.ChatMessage
}

func NewChatService(relay *WebhookService, mailbox *Mailbox, pollInterval, replyTimeout time.Duration) *ChatService {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if replyTimeout <= 0 {
		replyTimeout = defaultReplyTimeout
	}
	return &ChatService{
		relay:        relay,
		mailbox:      mailbox,
		pollInterval: pollInterval,
		replyTimeout: replyTimeout,
		transcripts:  make(map[string][]types.ChatMessage),
	}
}

// CreateSession mints a correlation token. The transcript is created lazily
// on the first send, so an unused session costs nothing.
func (s *ChatService) CreateSession() types.Session {
	return types.Session{
		SessionID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// Send appends the user message to the transcript, relays it, and returns the
// assistant reply. A relay failure leaves the transcript intact with only the
// user message; nothing is rolled back.
func (s *ChatService) Send(ctx context.Context, sessionID, input string, identity types.Identity) (types.ChatMessage, error) {
	if strings.TrimSpace(input) == "" {
		return types.ChatMessage{}, ErrEmptyInput
	}

	now := time.Now().UTC()
	s.append(sessionID, types.ChatMessage{
		ID:        messageID(now),
		Content:   input,
		Sender:    types.SenderUser,
		Timestamp: now,
	})

	payload := types.WebhookPayload{
		ChatInput: input,
		SessionID: sessionID,
		UserID:    identity.UserID,
		UserEmail: identity.Email,
		UserName:  identity.Name,
		Timestamp: &now,
	}
	result, err := s.relay.Send(ctx, payload)
	if err != nil {
		return types.ChatMessage{}, err
	}

	if !awaitsCallback(result) {
		return s.appendAssistant(sessionID, ExtractReplyText(result.Body)), nil
	}

	entry, err := s.awaitReply(ctx, sessionID)
	if err != nil {
		return types.ChatMessage{}, err
	}
	text := entry.Message
	if len(entry.RawData) > 0 {
		text = ExtractReplyText(entry.RawData)
	}
	return s.appendAssistant(sessionID, text), nil
}

// History returns a copy of the session transcript, oldest first.
func (s *ChatService) History(sessionID string) []types.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.transcripts[sessionID]
	copied := make([]types.ChatMessage, len(messages))
	copy(copied, messages)
	return copied
}

// awaitsCallback reports whether the webhook acknowledged the send instead of
// replying inline: a 202, or n8n's workflow-started body.
func awaitsCallback(result *RelayResult) bool {
	if result.Status == http.StatusAccepted {
		return true
	}
	var ack struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(result.Body, &ack); err != nil {
		return false
	}
	return ack.Message == workflowStartedAck
}

// awaitReply polls the mailbox until an entry arrives, the context is
// cancelled, or the reply timeout elapses. Cancellation stops the polling
// only; the workflow call itself is not aborted.
func (s *ChatService) awaitReply(ctx context.Context, sessionID string) (types.MailboxEntry, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(s.replyTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return types.MailboxEntry{}, ctx.Err()
		case <-deadline.C:
			return types.MailboxEntry{}, ErrReplyTimeout
		case <-ticker.C:
			if entry, ok := s.mailbox.Take(sessionID); ok {
				return entry, nil
			}
		}
	}
}

func (s *ChatService) append(sessionID string, message types.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[sessionID] = append(s.transcripts[sessionID], message)
}

func (s *ChatService) appendAssistant(sessionID, content string) types.ChatMessage {
	now := time.Now().UTC()
	message := types.ChatMessage{
		ID:        messageID(now),
		Content:   content,
		Sender:    types.SenderAssistant,
		Timestamp: now,
	}
	s.append(sessionID, message)
	return message
}

func messageID(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}
