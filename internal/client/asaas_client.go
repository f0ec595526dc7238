package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

const (
	msgCancelFailed = "Erro ao cancelar cobrança"
	msgUpdateFailed = "Erro ao atualizar cobrança"
)

// AsaasClient forwards charge operations to the Asaas payments API.
// The API key is supplied per call; the client itself holds no credentials.
type AsaasClient struct {
	sandboxURL    string
	productionURL string
	client        *http.Client
}

func NewAsaasClient(sandboxURL, productionURL string, timeout time.Duration) *AsaasClient {
	return &AsaasClient{
		sandboxURL:    strings.TrimRight(sandboxURL, "/"),
		productionURL: strings.TrimRight(productionURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL selects the API root for an environment. Anything but "production" is sandbox.
func (c *AsaasClient) BaseURL(environment string) string {
	if strings.EqualFold(strings.TrimSpace(environment), EnvProduction) {
		return c.productionURL
	}
	return c.sandboxURL
}

type asaasErrorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
	Message string `json:"message"`
}

func extractAsaasMessage(body []byte) string {
	var eb asaasErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if len(eb.Errors) > 0 && trimmed(eb.Errors[0].Description) != "" {
		return eb.Errors[0].Description
	}
	return trimmed(eb.Message)
}

func (c *AsaasClient) paymentURL(environment, chargeID string) string {
	return c.BaseURL(environment) + "/payments/" + url.PathEscape(chargeID)
}

func (c *AsaasClient) headers(apiKey string) map[string]string {
	return map[string]string{"access_token": apiKey}
}

// CancelCharge deletes a charge upstream and returns the raw upstream JSON.
func (c *AsaasClient) CancelCharge(ctx context.Context, apiKey, environment, chargeID string) (json.RawMessage, error) {
	body, err := doJSON(ctx, c.client, http.MethodDelete, c.paymentURL(environment, chargeID),
		c.headers(apiKey), nil, msgCancelFailed, extractAsaasMessage)
	if err != nil {
		return nil, err
	}
	return rawOrEmpty(body), nil
}

// UpdateCharge posts the given charge fields upstream and returns the raw upstream JSON.
func (c *AsaasClient) UpdateCharge(ctx context.Context, apiKey, environment, chargeID string, charge json.RawMessage) (json.RawMessage, error) {
	var payload any
	if len(charge) > 0 {
		payload = charge
	} else {
		payload = map[string]any{}
	}

	body, err := doJSON(ctx, c.client, http.MethodPost, c.paymentURL(environment, chargeID),
		c.headers(apiKey), payload, msgUpdateFailed, extractAsaasMessage)
	if err != nil {
		return nil, err
	}
	return rawOrEmpty(body), nil
}

func rawOrEmpty(b []byte) json.RawMessage {
	if len(trimmed(string(b))) == 0 {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(b)
}
