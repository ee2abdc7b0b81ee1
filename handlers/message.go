package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"workhive/policy"
	"workhive/services/marketplace"
	"workhive/utils"
)

// MessageHandler serves the direct-messaging endpoints.
type MessageHandler struct {
	Svc marketplace.Service
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(svc marketplace.Service) *MessageHandler {
	return &MessageHandler{Svc: svc}
}

// SendMessageHandler handles POST /messages.
func (h *MessageHandler) SendMessageHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermSendMessage) {
		return
	}

	var in marketplace.MessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid message payload", err.Error())
		return
	}

	msg, err := h.Svc.SendMessage(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to send message", err.Error())
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ConversationHandler handles GET /messages/:peer. Fetching a conversation
// marks the peer's messages to the caller as read.
func (h *MessageHandler) ConversationHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermSendMessage) {
		return
	}

	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	messages, err := h.Svc.Conversation(c.Request.Context(), actor.ID, c.Param("peer"), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load conversation", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
