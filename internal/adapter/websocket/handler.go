// Package websocket serves the streaming real-time transport
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/app/hub"
	"github.com/YelzhanWeb/orderhub/internal/app/protocol"
	"github.com/YelzhanWeb/orderhub/internal/config"

	ws "github.com/gorilla/websocket"
)

// Transport is the name reported to the hub for streaming clients
const Transport = "websocket"

const maxMessageSize = 64 << 10

type Handler struct {
	hub      *hub.Hub
	logger   logger.Logger
	upgrader ws.Upgrader

	pingInterval time.Duration
	pongWait     time.Duration
	writeTimeout time.Duration
}

func NewHandler(h *hub.Hub, cfg config.RealtimeConfig, logger logger.Logger) *Handler {
	return &Handler{
		hub:    h,
		logger: logger,
		upgrader: ws.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Дисплеи кухни и клиентов открываются с любых origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pingInterval: cfg.PingInterval,
		pongWait:     cfg.PongWait,
		writeTimeout: cfg.WriteTimeout,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("websocket_upgrade_failed", "Failed to upgrade connection", "", map[string]interface{}{
			"remote_addr": r.RemoteAddr,
			"reason":      err.Error(),
		})
		return
	}

	client := h.hub.Accept(Transport)

	go h.writePump(conn, client)
	h.readLoop(r.Context(), conn, client)
}

// readLoop decodes inbound frames and dispatches them until the socket fails
// or the client asks to disconnect
func (h *Handler) readLoop(ctx context.Context, conn *ws.Conn, client *hub.Client) {
	defer h.hub.Disconnect(client.ID())

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure, ws.CloseNoStatusReceived) {
				h.logger.Debug("websocket_read_failed", "Connection closed unexpectedly", client.ID(), map[string]interface{}{
					"reason": err.Error(),
				})
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(h.pongWait))

		in, err := protocol.Decode(data)
		if err != nil {
			h.logger.Warn("message_rejected", "Dropping malformed client message", client.ID(), map[string]interface{}{
				"reason": err.Error(),
			})
			continue
		}

		h.hub.Dispatch(ctx, client.ID(), in)

		if _, ok := in.(protocol.Disconnect); ok {
			return
		}
	}
}

// writePump is the only writer of conn. It drains the outbound queue in order
// and keeps the connection alive with pings.
func (h *Handler) writePump(conn *ws.Conn, client *hub.Client) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-client.Outbound():
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if !ok {
				// Клиент отключен хабом
				conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				h.logger.Debug("websocket_write_failed", "Failed to write frame", client.ID(), map[string]interface{}{
					"event":  frame.Event,
					"reason": err.Error(),
				})
				h.hub.Disconnect(client.ID())
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(ws.PingMessage, nil); err != nil {
				h.hub.Disconnect(client.ID())
				return
			}
		}
	}
}
