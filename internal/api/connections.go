package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/pagoupix/pagoupix-api/internal/billing"
	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/pagoupix/pagoupix-api/internal/service"
)

func (h *Handler) ListConnections(w http.ResponseWriter, r *http.Request) {
	items, err := h.conns.List(r.Context(), r.URL.Query().Get("company_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []model.WhatsAppConnection{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID string `json:"company_id"`
		Name      string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	conn, err := h.conns.Create(r.Context(), req.CompanyID, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}

func (h *Handler) ConnectionQR(w http.ResponseWriter, r *http.Request) {
	res, err := h.conns.QRCode(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ConnectionQRImage(w http.ResponseWriter, r *http.Request) {
	res, err := h.conns.QRCode(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if res.QRCode == "" {
		writeError(w, http.StatusConflict, "a conexão já está conectada, não há QR code")
		return
	}

	img, err := renderQRPNG(res.QRCode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (h *Handler) ConnectionStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := h.conns.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

type sendRequest struct {
	Phone    string        `json:"phone"`
	Message  string        `json:"message"`
	Template string        `json:"template"`
	Charge   *model.Charge `json:"charge"`
}

func (req sendRequest) text() string {
	if strings.TrimSpace(req.Template) != "" && req.Charge != nil {
		return billing.RenderTemplate(req.Template, *req.Charge)
	}
	return req.Message
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.conns.Send(r.Context(), r.PathValue("id"), req.Phone, req.text())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message_id": id})
}

type reminderFailure struct {
	Phone  string `json:"phone"`
	Reason string `json:"reason"`
}

func (h *Handler) SendReminders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template  string             `json:"template"`
		Reminders []service.Reminder `json:"reminders"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Template) == "" {
		writeError(w, http.StatusBadRequest, "template é obrigatório")
		return
	}

	id := r.PathValue("id")

	var mu sync.Mutex
	failures := []reminderFailure{}
	onSent := func(ctx context.Context, phone, remoteID string) {
		slog.Info("reminder sent", "connection_id", id, "phone", phone, "message_id", remoteID)
	}
	onFailed := func(ctx context.Context, phone, reason string) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, reminderFailure{Phone: phone, Reason: reason})
	}

	sender := service.NewReminderSender(h.conns.SenderFor(id), service.MaxMessageRunes).
		WithHooks(onSent, onFailed)
	sent, failed := sender.ProcessBatch(r.Context(), req.Template, req.Reminders)

	writeJSON(w, http.StatusOK, map[string]any{
		"sent":     sent,
		"failed":   failed,
		"failures": failures,
	})
}
