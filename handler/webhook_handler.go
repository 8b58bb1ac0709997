package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lerhino/rhino-be/service"
	"github.com/lerhino/rhino-be/types"
)

// WebhookHandler receives workflow callbacks and serves the polling endpoint
// the chat client uses to pick them up.
type WebhookHandler struct {
	mailbox *service.Mailbox
	hub     *service.Hub
}

func NewWebhookHandler(mailbox *service.Mailbox, hub *service.Hub) *WebhookHandler {
	return &WebhookHandler{
		mailbox: mailbox,
		hub:     hub,
	}
}

// HandleCallback accepts arbitrary JSON from the workflow engine. Whatever
// the shape, the callback is stored and acknowledged with 200; only an
// unparsable body is rejected.
func (h *WebhookHandler) HandleCallback(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to read callback body"})
		return
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("[webhook] unparsable callback body: %v", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to process callback"})
		return
	}

	text, source := service.ExtractCallbackText(data)
	rawMessage := "RAW RESPONSE: " + string(raw)
	sessionID := callbackSessionID(data)

	h.mailbox.Publish(sessionID, types.MailboxEntry{
		Message:   rawMessage,
		Timestamp: time.Now().UTC(),
		RawData:   json.RawMessage(raw),
	})
	if h.hub != nil {
		h.hub.Broadcast(sessionID, text)
	}

	log.Printf("[webhook] callback stored (source=%s, session=%q): %s", source, sessionID, preview(text, 100))

	c.JSON(http.StatusOK, types.CallbackResponse{
		Success: true,
		Message: "Reply received and stored",
		Source:  source,
		Debug: types.CallbackDebug{
			ExtractedMessage: text,
			RawResponse:      rawMessage,
			OriginalData:     json.RawMessage(raw),
		},
	})
}

// HandleCheck takes the pending reply for the session, clearing it in the
// same step so a reply is delivered at most once.
func (h *WebhookHandler) HandleCheck(c *gin.Context) {
	sessionID := c.Query("sessionId")

	entry, ok := h.mailbox.Take(sessionID)
	if !ok {
		c.JSON(http.StatusOK, types.CheckResponse{
			Success: true,
			Data:    nil,
			Debug: types.CheckDebug{
				CheckTime: time.Now().UTC().Format(time.RFC3339),
			},
		})
		return
	}

	c.JSON(http.StatusOK, types.CheckResponse{
		Success: true,
		Data:    &entry,
		Debug: types.CheckDebug{
			MessageLength:  len(entry.Message),
			MessagePreview: preview(entry.Message, 100),
			Timestamp:      entry.Timestamp.Format(time.RFC3339),
		},
	})
}

// callbackSessionID pulls the correlation token out of a callback payload
// when the workflow echoed it back.
func callbackSessionID(data interface{}) string {
	obj, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	if id, ok := obj["sessionId"].(string); ok {
		return id
	}
	return ""
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
