package polling

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/app/protocol"
)

const maxBodySize = 64 << 10

type HandshakeResponse struct {
	SID         string `json:"sid"`
	PollTimeout int64  `json:"pollTimeout"`
}

type SendResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

type Handler struct {
	manager *Manager
	logger  logger.Logger
}

func NewHandler(manager *Manager, logger logger.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("sid")

	switch {
	case r.Method == http.MethodPost && sid == "":
		h.handshake(w)
	case r.Method == http.MethodPost:
		h.send(w, r, sid)
	case r.Method == http.MethodGet && sid != "":
		h.poll(w, r, sid)
	case r.Method == http.MethodGet:
		writeError(w, http.StatusBadRequest, "sid is required")
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handshake(w http.ResponseWriter) {
	sid := h.manager.Open()
	writeJSON(w, http.StatusOK, HandshakeResponse{
		SID:         sid,
		PollTimeout: h.manager.pollTimeout.Milliseconds(),
	})
}

func (h *Handler) poll(w http.ResponseWriter, r *http.Request, sid string) {
	frames, err := h.manager.Poll(r.Context(), sid)
	if errors.Is(err, ErrUnknownSession) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request, sid string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	raw, err := splitFrames(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed frame")
		return
	}

	var (
		msgs     []protocol.Inbound
		rejected int
	)
	for _, frame := range raw {
		in, err := protocol.Decode(frame)
		if err != nil {
			rejected++
			h.logger.Warn("message_rejected", "Dropping malformed client message", sid, map[string]interface{}{
				"reason": err.Error(),
			})
			continue
		}
		msgs = append(msgs, in)
	}

	if err := h.manager.Send(r.Context(), sid, msgs); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SendResponse{Accepted: len(msgs), Rejected: rejected})
}

// splitFrames accepts a single frame object or an array of frames
func splitFrames(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var frames []json.RawMessage
		if err := json.Unmarshal(trimmed, &frames); err != nil {
			return nil, err
		}
		return frames, nil
	}
	if !json.Valid(trimmed) {
		return nil, protocol.ErrMalformedFrame
	}
	return []json.RawMessage{trimmed}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
