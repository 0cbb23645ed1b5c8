package http

import (
	"net/http"

	"github.com/YelzhanWeb/orderhub/internal/app/hub"
)

// StatsProvider reports live connection counts. Implemented by hub.Hub.
type StatsProvider interface {
	Stats() hub.Stats
}

type HealthResponse struct {
	Status   string     `json:"status"`
	Mode     string     `json:"mode"`
	Realtime *hub.Stats `json:"realtime,omitempty"`
}

type HealthHandler struct {
	mode  string
	stats StatsProvider
}

// NewHealthHandler reports the running mode; stats may be nil when the
// process runs without a hub
func NewHealthHandler(mode string, stats StatsProvider) *HealthHandler {
	return &HealthHandler{mode: mode, stats: stats}
}

// GET /healthz
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Mode: h.mode}
	if h.stats != nil {
		stats := h.stats.Stats()
		resp.Realtime = &stats
	}
	respondJSON(w, http.StatusOK, resp)
}
