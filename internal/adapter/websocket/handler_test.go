package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/app/hub"
	"github.com/YelzhanWeb/orderhub/internal/app/protocol"
	"github.com/YelzhanWeb/orderhub/internal/config"
	"github.com/YelzhanWeb/orderhub/internal/domain"

	ws "github.com/gorilla/websocket"
)

func testServer(t *testing.T) (*hub.Hub, *httptest.Server) {
	t.Helper()
	h := hub.New(hub.Options{Logger: logger.Nop()})
	handler := NewHandler(h, config.RealtimeConfig{
		PingInterval: time.Second,
		PongWait:     5 * time.Second,
		WriteTimeout: time.Second,
	}, logger.Nop())

	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		h.DisconnectAll()
		server.Close()
	})
	return h, server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, server *httptest.Server) *ws.Conn {
	t.Helper()
	conn, _, err := ws.DefaultDialer.Dial(wsURL(server), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if frame := readFrame(t, conn); frame.Event != protocol.EventConnected {
		t.Fatalf("first frame = %s, want connected", frame.Event)
	}
	return conn
}

func readFrame(t *testing.T, conn *ws.Conn) protocol.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame protocol.Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return frame
}

func send(t *testing.T, conn *ws.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(ws.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHandler_NewOrderRelay(t *testing.T) {
	h, server := testServer(t)

	kitchen := dial(t, server)
	send(t, kitchen, `{"event":"join-kitchen"}`)
	eventually(t, "kitchen join", func() bool { return h.Members("kitchen") == 1 })

	register := dial(t, server)
	send(t, register, `{"event":"new-order","data":{"queueNumber":"Q-001","customerName":"Sari"}}`)

	frame := readFrame(t, kitchen)
	if frame.Event != protocol.EventOrderReceived {
		t.Fatalf("Event = %s", frame.Event)
	}
	if string(frame.Data) != `{"queueNumber":"Q-001","customerName":"Sari"}` {
		t.Errorf("Data = %s", frame.Data)
	}
}

func TestHandler_MalformedMessageKeepsConnection(t *testing.T) {
	h, server := testServer(t)

	customer := dial(t, server)
	send(t, customer, `not json`)
	send(t, customer, `{"event":"join-customer","data":42}`)
	send(t, customer, `{"event":"join-customer","data":{"queueNumber":"Q-005"}}`)
	eventually(t, "customer join", func() bool { return h.Members("customer-Q-005") == 1 })

	bridge := hub.NewBridge(logger.Nop())
	bridge.Attach(h)
	bridge.PublishStatusChange(context.Background(), "o1", domain.StatusReady, "Q-005")

	frame := readFrame(t, customer)
	if frame.Event != protocol.EventStatusUpdated || string(frame.Data) != `{"orderId":"o1","status":"READY"}` {
		t.Errorf("got %s %s", frame.Event, frame.Data)
	}
}

func TestHandler_DisconnectEvent(t *testing.T) {
	h, server := testServer(t)

	conn := dial(t, server)
	send(t, conn, `{"event":"join-kitchen"}`)
	send(t, conn, `{"event":"disconnect"}`)

	eventually(t, "disconnect", func() bool { return h.Stats().Connections == 0 })
	if got := h.Members("kitchen"); got != 0 {
		t.Errorf("Members = %d", got)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the server to close the socket")
	}
}

func TestHandler_ClientCloseRemovesConnection(t *testing.T) {
	h, server := testServer(t)

	conn := dial(t, server)
	send(t, conn, `{"event":"join-customer","data":{"queueNumber":"Q-009"}}`)
	eventually(t, "customer join", func() bool { return h.Members("customer-Q-009") == 1 })

	conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
	conn.Close()

	eventually(t, "cleanup", func() bool { return h.Stats() == hub.Stats{} })
}

func TestHandler_HubShutdownClosesSocket(t *testing.T) {
	h, server := testServer(t)
	conn := dial(t, server)

	h.DisconnectAll()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !ws.IsCloseError(err, ws.CloseNormalClosure) {
		t.Errorf("expected normal closure, got %v", err)
	}
}
