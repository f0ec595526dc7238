package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pagoupix/pagoupix-api/internal/client"
	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/pagoupix/pagoupix-api/internal/repo"
	"github.com/pagoupix/pagoupix-api/internal/service"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidTransition = "transição de status da conexão não permitida"
	msgInternal          = "erro interno ao processar a requisição"
)

type PaymentProxy interface {
	CancelCharge(ctx context.Context, apiKey, environment, chargeID string) (json.RawMessage, error)
	UpdateCharge(ctx context.Context, apiKey, environment, chargeID string, charge json.RawMessage) (json.RawMessage, error)
}

type Connections interface {
	List(ctx context.Context, companyID string) ([]model.WhatsAppConnection, error)
	Create(ctx context.Context, companyID, name string) (model.WhatsAppConnection, error)
	QRCode(ctx context.Context, id string) (service.QRResult, error)
	Status(ctx context.Context, id string) (model.WhatsAppConnection, error)
	Send(ctx context.Context, id, phone, message string) (string, error)
	SenderFor(id string) service.SendClient
}

type Clients interface {
	Create(ctx context.Context, in service.NewClient) (model.Client, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]model.Client, error)
}

type Settings interface {
	GetCompanySettings(ctx context.Context, companyID string) (model.CompanySettings, error)
}

type Poller interface {
	Start() bool
	Stop() bool
	IsRunning() bool
	Ticks() int64
}

type Handler struct {
	poller   Poller
	payments PaymentProxy
	settings Settings
	conns    Connections
	clients  Clients
}

func NewHandler(p Poller, payments PaymentProxy, settings Settings, conns Connections, clients Clients) *Handler {
	return &Handler{
		poller:   p,
		payments: payments,
		settings: settings,
		conns:    conns,
		clients:  clients,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) PollerStatus(w http.ResponseWriter, r *http.Request) {
	h.writePollerState(w)
}

func (h *Handler) PollerStart(w http.ResponseWriter, r *http.Request) {
	h.poller.Start()
	h.writePollerState(w)
}

func (h *Handler) PollerStop(w http.ResponseWriter, r *http.Request) {
	h.poller.Stop()
	h.writePollerState(w)
}

func (h *Handler) writePollerState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"running": h.poller.IsRunning(),
		"ticks":   h.poller.Ticks(),
	})
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeServiceError maps domain and upstream errors onto HTTP responses.
// Upstream failures keep the upstream status code and message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *service.ValidationError
		ue *client.UpstreamError
	)

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "Conexão não encontrada")
	case errors.Is(err, service.ErrMissingToken):
		writeError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, service.ErrNotConnected):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidTransition):
		slog.Warn("connection transition refused", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusConflict, msgInvalidTransition)
	case errors.As(err, &ue):
		writeError(w, ue.Status, ue.Message)
	case errors.Is(err, client.ErrInvalidResponse):
		slog.Error("gateway response rejected", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadGateway, client.ErrInvalidResponse.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
