package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/services"
)

// EventHandler receives engagement events (likes, comments, shares) from the
// post service and turns them into notifications for the post owner. Dispatch
// is best-effort, so these endpoints acknowledge as soon as the event is
// accepted.
type EventHandler struct {
	notifier *services.NotificationService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(notifier *services.NotificationService) *EventHandler {
	return &EventHandler{notifier: notifier}
}

// RegisterEventRoutes registers engagement event routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events/like", h.LikeEvent)
	g.POST("/events/comment", h.CommentEvent)
	g.POST("/events/share", h.ShareEvent)
}

// LikeEvent notifies the post owner about a like
func (h *EventHandler) LikeEvent(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.LikeEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Liking your own post produces no notification.
	if req.RecipientID != currentUserID {
		h.notifier.NotifyLike(c.Request().Context(), req.RecipientID, req.PostID, currentUserID)
	}

	return c.JSON(http.StatusAccepted, echo.Map{"success": true, "data": echo.Map{"accepted": true}})
}

// CommentEvent notifies the post owner about a new comment
func (h *EventHandler) CommentEvent(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CommentEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.RecipientID != currentUserID {
		h.notifier.NotifyComment(c.Request().Context(), req.RecipientID, req.PostID, currentUserID, req.CommentID, req.Text)
	}

	return c.JSON(http.StatusAccepted, echo.Map{"success": true, "data": echo.Map{"accepted": true}})
}

// ShareEvent notifies the post owner about a re-share
func (h *EventHandler) ShareEvent(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ShareEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.RecipientID != currentUserID {
		h.notifier.NotifyShare(c.Request().Context(), req.RecipientID, req.PostID, currentUserID, req.NewPostID)
	}

	return c.JSON(http.StatusAccepted, echo.Map{"success": true, "data": echo.Map{"accepted": true}})
}
