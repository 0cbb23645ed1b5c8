package http

import (
	"net/http"
	"strings"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"

	ws "github.com/gorilla/websocket"
)

// Routes holds the handlers mounted by NewRouter. Nil handlers are skipped,
// so each mode mounts only what it runs.
type Routes struct {
	Orders *OrderHandler
	Menu   *MenuHandler
	Health *HealthHandler

	RealtimePath string
	Websocket    http.Handler
	Polling      http.Handler
}

func NewRouter(routes Routes, logger logger.Logger) http.Handler {
	mux := http.NewServeMux()

	if routes.Orders != nil {
		mux.HandleFunc("POST /api/orders", routes.Orders.CreateOrder)
		mux.HandleFunc("GET /api/orders", routes.Orders.ListOrders)
		mux.HandleFunc("PATCH /api/orders/{id}/status", routes.Orders.UpdateStatus)
		mux.HandleFunc("PATCH /api/orders/{id}/payment", routes.Orders.UpdatePayment)
		mux.HandleFunc("GET /api/orders/{id}/history", routes.Orders.StatusHistory)
		mux.HandleFunc("GET /api/queue/generate", routes.Orders.GenerateQueueNumber)
	}

	if routes.Menu != nil {
		mux.HandleFunc("GET /api/menu", routes.Menu.ListMenu)
		mux.HandleFunc("POST /api/seed", routes.Menu.Seed)
	}

	if routes.Health != nil {
		mux.Handle("GET /healthz", routes.Health)
	}

	if routes.Websocket != nil || routes.Polling != nil {
		realtime := RealtimeHandler(routes.Websocket, routes.Polling)
		path := strings.TrimSuffix(routes.RealtimePath, "/")
		if path != "" {
			mux.Handle(path, realtime)
		}
		mux.Handle(path+"/", realtime)
	}

	return Chain(mux,
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware,
	)
}

// RealtimeHandler serves both transports on one path. Requests with
// transport=polling go to the polling handler, websocket upgrades go to the
// streaming handler.
func RealtimeHandler(websocket, polling http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("transport") == "polling" && polling != nil:
			polling.ServeHTTP(w, r)
		case ws.IsWebSocketUpgrade(r) && websocket != nil:
			websocket.ServeHTTP(w, r)
		default:
			respondError(w, http.StatusBadRequest, "unsupported transport")
		}
	})
}
