package api

import (
	"net/http"

	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/pagoupix/pagoupix-api/internal/service"
)

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in service.NewClient
	if !decodeBody(w, r, &in) {
		return
	}

	c, err := h.clients.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := parseInt(q.Get("limit"), 50)
	offset := parseInt(q.Get("offset"), 0)

	items, err := h.clients.List(r.Context(), q.Get("company_id"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []model.Client{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
