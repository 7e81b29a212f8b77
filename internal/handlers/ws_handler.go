package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/talentbase/backend/internal/realtime"
)

const (
	pongWait       = 60 * time.Second
	maxCommandSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsCommand is the client-to-server control message on the live socket.
type wsCommand struct {
	Action         string `json:"action"`
	Kind           string `json:"kind"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// WSHandler upgrades clients to a websocket and bridges their subscribe and
// unsubscribe commands to the realtime manager. Snapshots flow back over the
// same socket.
type WSHandler struct {
	manager *realtime.Manager
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(manager *realtime.Manager) *WSHandler {
	return &WSHandler{manager: manager}
}

// RegisterWSRoutes registers the live socket route
func (h *WSHandler) RegisterWSRoutes(g *echo.Group) {
	g.GET("/ws", h.Connect)
}

// Connect upgrades the request and serves subscription commands until the
// client disconnects. Every stream opened by this session is torn down on
// exit.
func (h *WSHandler) Connect(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	session := realtime.NewSession(currentUserID, ws)
	session.Start()
	log.Printf("ws: session %s connected for user %s", session.ID, currentUserID)

	h.serve(c.Request().Context(), session, ws)

	log.Printf("ws: session %s closed for user %s", session.ID, currentUserID)
	return nil
}

// serve runs the read loop. Cancels for this session's subscriptions are kept
// locally so a disconnect only detaches streams this socket opened.
func (h *WSHandler) serve(ctx context.Context, session *realtime.Session, ws *websocket.Conn) {
	cancels := make(map[string]func())
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
		session.Close(websocket.CloseNormalClosure, "")
	}()

	ws.SetReadLimit(maxCommandSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: session %s read: %v", session.ID, err)
			}
			return
		}

		var cmd wsCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			log.Printf("ws: session %s bad command: %v", session.ID, err)
			continue
		}

		switch cmd.Action {
		case "subscribe":
			h.subscribe(ctx, session, cmd, cancels)
		case "unsubscribe":
			// Unknown keys are a no-op, repeating an unsubscribe is safe.
			key := streamKey(cmd)
			if cancel, ok := cancels[key]; ok {
				cancel()
				delete(cancels, key)
			}
		default:
			log.Printf("ws: session %s unknown action %q", session.ID, cmd.Action)
		}
	}
}

func (h *WSHandler) subscribe(ctx context.Context, session *realtime.Session, cmd wsCommand, cancels map[string]func()) {
	deliver := func(s realtime.Snapshot) {
		if err := session.Send(s); err != nil {
			log.Printf("ws: session %s deliver: %v", session.ID, err)
		}
	}

	var (
		cancel func()
		err    error
	)
	switch realtime.Kind(cmd.Kind) {
	case realtime.KindConversations:
		cancel, err = h.manager.SubscribeConversations(ctx, session.UserID, deliver)
	case realtime.KindMessages:
		if cmd.ConversationID == "" {
			log.Printf("ws: session %s subscribe messages without conversation_id", session.ID)
			return
		}
		cancel, err = h.manager.SubscribeMessages(ctx, session.UserID, cmd.ConversationID, deliver)
	case realtime.KindNotifications:
		cancel, err = h.manager.SubscribeNotifications(ctx, session.UserID, deliver)
	default:
		log.Printf("ws: session %s unknown kind %q", session.ID, cmd.Kind)
		return
	}
	if err != nil {
		log.Printf("ws: session %s subscribe %s: %v", session.ID, cmd.Kind, err)
		return
	}

	key := streamKey(cmd)
	if prev, ok := cancels[key]; ok {
		prev()
	}
	cancels[key] = cancel
}

func streamKey(cmd wsCommand) string {
	if cmd.ConversationID != "" {
		return cmd.Kind + ":" + cmd.ConversationID
	}
	return cmd.Kind
}
