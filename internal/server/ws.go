package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/shahar-caura/aura/internal/router"
)

// ChatRouter routes one request; *router.Router implements it.
type ChatRouter interface {
	Route(ctx context.Context, message string) router.Response
}

// WSHandler answers chat messages over a WebSocket. Each text frame
// {"message": ...} gets one {"response": ...} frame, in order.
type WSHandler struct {
	Router  ChatRouter
	Metrics *Metrics
	Logger  *slog.Logger

	upgrader websocket.Upgrader
}

// NewWSHandler creates a WSHandler accepting any origin.
func NewWSHandler(r ChatRouter, m *Metrics, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		Router:  r,
		Metrics: m,
		Logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("ws: upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	h.Logger.Debug("ws: client connected", "remote", r.RemoteAddr)

	for {
		kind, payload, err := conn.ReadMessage()
		if err != nil {
			if !isClosed(err) {
				h.Logger.Warn("ws: read failed", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		var req ChatRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			if err := conn.WriteJSON(ErrorResponse{Code: http.StatusBadRequest, Message: "can't decode JSON body: " + err.Error()}); err != nil {
				return
			}
			continue
		}

		id := uuid.NewString()
		ctx := router.WithRequestID(r.Context(), id)
		h.Metrics.CountRequest("ws")
		resp := h.Router.Route(ctx, strings.TrimSpace(req.Message))

		if err := conn.WriteJSON(ChatResponse{Response: resp.Text}); err != nil {
			h.Logger.Warn("ws: write failed", "request_id", id, "error", err)
			return
		}
	}
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure)
}
