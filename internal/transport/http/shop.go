package http

import (
	"log/slog"
	"net/http"
)

type shopResponse struct {
	IsOpen bool `json:"isOpen"`
}

func (h *Handler) getShop(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, shopResponse{IsOpen: h.Shop.IsOpen()})
}

func (h *Handler) toggleShop(w http.ResponseWriter, r *http.Request) {
	open, err := h.Shop.Toggle(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	requestLogger(r.Context(), h.log).Info("shop toggled", slog.Bool("open", open))
	h.respondJSON(w, http.StatusOK, shopResponse{IsOpen: open})
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.Catalog)
}
