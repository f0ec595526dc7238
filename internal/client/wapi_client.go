package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	msgCreateInstanceFailed = "Erro ao criar instância do WhatsApp"
	msgQRCodeFailed         = "Erro ao obter QR Code"
	msgStatusFailed         = "Erro ao verificar status da conexão"
	msgSendFailed           = "Erro ao enviar mensagem"
)

// ErrInvalidResponse wraps a 2xx gateway answer this client cannot use.
var ErrInvalidResponse = errors.New("resposta inválida do gateway do WhatsApp")

// WAPIClient talks to the W-API WhatsApp gateway. Every call carries the
// company's bearer token.
type WAPIClient struct {
	baseURL string
	client  *http.Client
}

func NewWAPIClient(baseURL string, timeout time.Duration) *WAPIClient {
	return &WAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type Instance struct {
	InstanceID string `json:"instanceId"`
	Token      string `json:"token,omitempty"`
}

type QRCode struct {
	QRCode    string `json:"qrcode"`
	Connected bool   `json:"connected"`
}

type wapiErrorBody struct {
	Error   any    `json:"error"`
	Message string `json:"message"`
}

func extractWAPIMessage(body []byte) string {
	var eb wapiErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if m := trimmed(eb.Message); m != "" {
		return m
	}
	if s, ok := eb.Error.(string); ok {
		return trimmed(s)
	}
	return ""
}

func (c *WAPIClient) headers(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (c *WAPIClient) instanceURL(path, instanceID string) string {
	return fmt.Sprintf("%s%s?instanceId=%s", c.baseURL, path, url.QueryEscape(instanceID))
}

func (c *WAPIClient) CreateInstance(ctx context.Context, token, name string) (Instance, error) {
	body, err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/integrator/create-instance",
		c.headers(token), map[string]any{"instanceName": name}, msgCreateInstanceFailed, extractWAPIMessage)
	if err != nil {
		return Instance{}, err
	}

	var inst Instance
	if err := json.Unmarshal(body, &inst); err != nil {
		return Instance{}, fmt.Errorf("%w: %v body=%q", ErrInvalidResponse, err, string(body))
	}
	if inst.InstanceID == "" {
		return Instance{}, fmt.Errorf("%w: instanceId ausente body=%q", ErrInvalidResponse, string(body))
	}
	return inst, nil
}

// QRCode fetches a pairing QR code. An already paired instance answers with
// Connected set and no code.
func (c *WAPIClient) QRCode(ctx context.Context, token, instanceID string) (QRCode, error) {
	body, err := doJSON(ctx, c.client, http.MethodGet, c.instanceURL("/instance/qr-code", instanceID),
		c.headers(token), nil, msgQRCodeFailed, extractWAPIMessage)
	if err != nil {
		return QRCode{}, err
	}

	var qr QRCode
	if err := json.Unmarshal(body, &qr); err != nil {
		return QRCode{}, fmt.Errorf("%w: %v body=%q", ErrInvalidResponse, err, string(body))
	}
	if qr.QRCode == "" && !qr.Connected {
		return QRCode{}, fmt.Errorf("%w: sem qrcode e sem connected body=%q", ErrInvalidResponse, string(body))
	}
	return qr, nil
}

func (c *WAPIClient) Status(ctx context.Context, token, instanceID string) (bool, error) {
	body, err := doJSON(ctx, c.client, http.MethodGet, c.instanceURL("/instance/status-instance", instanceID),
		c.headers(token), nil, msgStatusFailed, extractWAPIMessage)
	if err != nil {
		return false, err
	}

	var st struct {
		Connected bool `json:"connected"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return false, fmt.Errorf("%w: %v body=%q", ErrInvalidResponse, err, string(body))
	}
	return st.Connected, nil
}

// SendText sends a plain text message. phone must already be in international form.
func (c *WAPIClient) SendText(ctx context.Context, token, instanceID, phone, message string) (string, error) {
	body, err := doJSON(ctx, c.client, http.MethodPost, c.instanceURL("/message/send-text", instanceID),
		c.headers(token), map[string]any{"phone": phone, "message": message}, msgSendFailed, extractWAPIMessage)
	if err != nil {
		return "", err
	}

	var sr struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("%w: %v body=%q", ErrInvalidResponse, err, string(body))
	}
	return sr.MessageID, nil
}
