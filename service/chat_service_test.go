package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerhino/rhino-be/types"
)

func newRelayStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestChatServiceSendInlineReply(t *testing.T) {
	server := newRelayStub(t, http.StatusOK, `{"output":"X is Y"}`)
	svc := NewChatService(NewWebhookService(server.URL), NewMailbox(), 0, 0)

	reply, err := svc.Send(context.Background(), "abc", "What is X?", types.Identity{})
	require.NoError(t, err)
	assert.Equal(t, types.SenderAssistant, reply.Sender)
	assert.Equal(t, "X is Y", reply.Content)

	transcript := svc.History("abc")
	require.Len(t, transcript, 2)
	assert.Equal(t, types.SenderUser, transcript[0].Sender)
	assert.Equal(t, "What is X?", transcript[0].Content)
	assert.Equal(t, types.SenderAssistant, transcript[1].Sender)
	assert.Equal(t, "X is Y", transcript[1].Content)
}

func TestChatServiceSendAsyncReply(t *testing.T) {
	server := newRelayStub(t, http.StatusOK, `{"message":"Workflow was started"}`)
	mailbox := NewMailbox()
	svc := NewChatService(NewWebhookService(server.URL), mailbox, 10*time.Millisecond, time.Second)

	go func() {
		time.Sleep(30 * time.Millisecond)
		mailbox.Publish("abc", types.MailboxEntry{
			Message:   `RAW RESPONSE: {"response":"Deferred answer"}`,
			Timestamp: time.Now().UTC(),
			RawData:   json.RawMessage(`{"response":"Deferred answer"}`),
		})
	}()

	reply, err := svc.Send(context.Background(), "abc", "What is X?", types.Identity{})
	require.NoError(t, err)
	assert.Equal(t, "Deferred answer", reply.Content)

	// The reply was consumed, nothing left to poll.
	_, ok := mailbox.Take("abc")
	assert.False(t, ok)

	transcript := svc.History("abc")
	require.Len(t, transcript, 2)
	assert.Equal(t, "Deferred answer", transcript[1].Content)
}

func TestChatServiceSendAsyncAcceptedStatus(t *testing.T) {
	server := newRelayStub(t, http.StatusAccepted, `{}`)
	mailbox := NewMailbox()
	svc := NewChatService(NewWebhookService(server.URL), mailbox, 10*time.Millisecond, time.Second)

	go func() {
		time.Sleep(30 * time.Millisecond)
		mailbox.Publish("abc", types.MailboxEntry{Message: "plain mailbox text", Timestamp: time.Now().UTC()})
	}()

	reply, err := svc.Send(context.Background(), "abc", "hi", types.Identity{})
	require.NoError(t, err)
	// No raw payload on the entry: the message field is used as is.
	assert.Equal(t, "plain mailbox text", reply.Content)
}

func TestChatServiceSendReplyTimeout(t *testing.T) {
	server := newRelayStub(t, http.StatusOK, `{"message":"Workflow was started"}`)
	svc := NewChatService(NewWebhookService(server.URL), NewMailbox(), 10*time.Millisecond, 50*time.Millisecond)

	_, err := svc.Send(context.Background(), "abc", "hi", types.Identity{})
	assert.ErrorIs(t, err, ErrReplyTimeout)

	// Only the user message remains, nothing rolled back.
	transcript := svc.History("abc")
	require.Len(t, transcript, 1)
	assert.Equal(t, types.SenderUser, transcript[0].Sender)
}

func TestChatServiceSendCancelledWhilePolling(t *testing.T) {
	server := newRelayStub(t, http.StatusOK, `{"message":"Workflow was started"}`)
	svc := NewChatService(NewWebhookService(server.URL), NewMailbox(), 10*time.Millisecond, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := svc.Send(ctx, "abc", "hi", types.Identity{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChatServiceSendRelayFailure(t *testing.T) {
	server := newRelayStub(t, http.StatusInternalServerError, `{"error":"boom"}`)
	svc := NewChatService(NewWebhookService(server.URL), NewMailbox(), 0, 0)

	_, err := svc.Send(context.Background(), "abc", "hi", types.Identity{})
	var relayErr *RelayError
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, http.StatusInternalServerError, relayErr.Status)

	transcript := svc.History("abc")
	require.Len(t, transcript, 1)
}

func TestChatServiceSendEmptyInput(t *testing.T) {
	svc := NewChatService(NewWebhookService("http://unused"), NewMailbox(), 0, 0)
	_, err := svc.Send(context.Background(), "abc", "   ", types.Identity{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, svc.History("abc"))
}

func TestChatServiceSendForwardsIdentity(t *testing.T) {
	var received types.WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{"output":"ok"}`))
	}))
	t.Cleanup(server.Close)

	svc := NewChatService(NewWebhookService(server.URL), NewMailbox(), 0, 0)
	_, err := svc.Send(context.Background(), "abc", "hi", types.Identity{
		UserID: "user-1",
		Email:  "user@example.com",
		Name:   "User One",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", received.UserID)
	assert.Equal(t, "user@example.com", received.UserEmail)
	assert.Equal(t, "User One", received.UserName)
	require.NotNil(t, received.Timestamp)
}

func TestChatServiceCreateSession(t *testing.T) {
	svc := NewChatService(NewWebhookService(""), NewMailbox(), 0, 0)
	a := svc.CreateSession()
	b := svc.CreateSession()
	assert.NotEmpty(t, a.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
	assert.Empty(t, svc.History(a.SessionID))
}
