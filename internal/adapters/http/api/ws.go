// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/okian/podium/internal/adapters/ws"
	"github.com/okian/podium/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Observers connect from arbitrary origins; the endpoint is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades observer connections and hands them to the hub.
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleWS handles GET /ws requests. The connection receives the current
// ranking snapshot on join and every broadcast thereafter.
func (h *WSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Warn(r.Context(), "websocket upgrade failed",
			logger.Error(err),
		)
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register(r.Context(), client)
	client.Start()
}
