package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lerhino/rhino-be/middleware"
	"github.com/lerhino/rhino-be/service"
	"github.com/lerhino/rhino-be/types"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// HandleCreateSession mints a new session token for the client.
func (h *ChatHandler) HandleCreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.chatService.CreateSession())
}

// HandleChat runs one chat turn. The response carries the assistant message,
// whether it arrived inline or through the callback path.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.ChatInput) == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "chatInput is required"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "sessionId is required"})
		return
	}

	identity := middleware.IdentityFrom(c)
	reply, err := h.chatService.Send(c.Request.Context(), req.SessionID, req.ChatInput, identity)
	if err != nil {
		var relayErr *service.RelayError
		switch {
		case errors.Is(err, service.ErrReplyTimeout):
			c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{Error: err.Error()})
		case errors.As(err, &relayErr):
			c.JSON(http.StatusBadGateway, types.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, types.ChatResponse{
		SessionID: req.SessionID,
		Message:   reply,
	})
}

func (h *ChatHandler) HandleHistory(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "sessionId query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, types.HistoryResponse{
		SessionID: sessionID,
		Messages:  h.chatService.History(sessionID),
	})
}
