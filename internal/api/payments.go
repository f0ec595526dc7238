package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pagoupix/pagoupix-api/internal/client"
	"github.com/pagoupix/pagoupix-api/internal/repo"
)

type chargeRequest struct {
	APIKey      string          `json:"apiKey"`
	Environment string          `json:"environment"`
	ChargeID    string          `json:"chargeId"`
	CompanyID   string          `json:"companyId,omitempty"`
	Charge      json.RawMessage `json:"charge,omitempty"`
}

func (req chargeRequest) validate() string {
	if strings.TrimSpace(req.APIKey) == "" {
		return "apiKey é obrigatório"
	}
	if strings.TrimSpace(req.ChargeID) == "" {
		return "chargeId é obrigatório"
	}
	return ""
}

// withCompanyCredentials fills a missing apiKey, and a missing environment,
// from the company's stored Asaas settings. An explicit apiKey always wins.
func (h *Handler) withCompanyCredentials(ctx context.Context, req *chargeRequest) error {
	if strings.TrimSpace(req.APIKey) != "" || strings.TrimSpace(req.CompanyID) == "" {
		return nil
	}

	s, err := h.settings.GetCompanySettings(ctx, req.CompanyID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	req.APIKey = s.AsaasAPIKey
	if strings.TrimSpace(req.Environment) == "" {
		req.Environment = s.AsaasEnvironment
	}
	return nil
}

func (h *Handler) CancelCharge(w http.ResponseWriter, r *http.Request) {
	h.proxyCharge(w, r, func(ctx context.Context, req chargeRequest) (json.RawMessage, error) {
		return h.payments.CancelCharge(ctx, req.APIKey, req.Environment, req.ChargeID)
	})
}

func (h *Handler) UpdateCharge(w http.ResponseWriter, r *http.Request) {
	h.proxyCharge(w, r, func(ctx context.Context, req chargeRequest) (json.RawMessage, error) {
		return h.payments.UpdateCharge(ctx, req.APIKey, req.Environment, req.ChargeID, req.Charge)
	})
}

// proxyCharge relays one charge operation. The upstream body is returned
// verbatim on success; a transport failure answers 500 with its message.
func (h *Handler) proxyCharge(w http.ResponseWriter, r *http.Request, call func(context.Context, chargeRequest) (json.RawMessage, error)) {
	var req chargeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.withCompanyCredentials(r.Context(), &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	body, err := call(r.Context(), req)
	var ue *client.UpstreamError
	switch {
	case errors.As(err, &ue):
		writeError(w, ue.Status, ue.Message)
		return
	case err != nil:
		slog.Error("charge proxy failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
