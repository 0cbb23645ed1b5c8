package http

import (
	"net/http"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

type MenuHandler struct {
	service interfaces.MenuService
	logger  logger.Logger
}

func NewMenuHandler(service interfaces.MenuService, logger logger.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

type SeedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// GET /api/menu
func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMenu(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch menu items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// POST /api/seed
func (h *MenuHandler) Seed(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Seed(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to seed menu items")
		return
	}
	respondJSON(w, http.StatusOK, SeedResponse{
		Message: "Sample menu items created successfully",
		Count:   count,
	})
}
