package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talentbase/backend/internal/chat"
	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/services"
)

// ChatHandler handles conversation and message HTTP requests
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/conversations", h.OpenConversation)
	g.GET("/conversations", h.GetConversations)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.PUT("/conversations/:id/read", h.MarkAsRead)
}

// OpenConversation returns the conversation with the given peer, creating it
// lazily on first contact.
func (h *ChatHandler) OpenConversation(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conversation, err := h.chatService.GetOrCreateConversation(c.Request().Context(), currentUserID, req.PeerID)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidParticipants) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"conversation": conversation.ViewFor(currentUserID)},
	})
}

// GetConversations returns the user's conversations, most recent activity
// first, each carrying the caller's own unread counter.
func (h *ChatHandler) GetConversations(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conversations, err := h.chatService.ListConversations(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"conversations": conversations},
	})
}

// SendMessage appends a message to the conversation
func (h *ChatHandler) SendMessage(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID := c.Param("id")

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.SendMessage(c.Request().Context(), conversationID, currentUserID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			return echo.NewHTTPError(http.StatusBadRequest, "Message text is empty")
		case errors.Is(err, services.ErrInvalidConversation):
			return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		case errors.Is(err, chat.ErrInvalidParticipants):
			return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"message": message},
	})
}

// GetMessages returns the conversation's messages in createdAt ascending
// order.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID := c.Param("id")

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	messages, err := h.chatService.ListMessages(c.Request().Context(), conversationID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"messages": messages},
	})
}

// MarkAsRead resets the caller's unread counter and flags the other side's
// messages as read. Safe to repeat.
func (h *ChatHandler) MarkAsRead(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	conversationID := c.Param("id")

	if err := h.chatService.MarkMessagesAsRead(c.Request().Context(), conversationID, currentUserID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidConversation):
			return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		case errors.Is(err, chat.ErrInvalidParticipants):
			return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"read": true}})
}
