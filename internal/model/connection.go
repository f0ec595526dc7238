package model

import (
	"errors"
	"time"
)

type ConnectionStatus string

const (
	Disconnected ConnectionStatus = "disconnected"
	Connecting   ConnectionStatus = "connecting"
	Connected    ConnectionStatus = "connected"
)

var ErrInvalidTransition = errors.New("transição de status da conexão não permitida")

// CanTransition reports whether a connection may move from s to next.
// Re-entering the same state is allowed so repeated gateway reports are no-ops.
func (s ConnectionStatus) CanTransition(next ConnectionStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case Disconnected:
		return next == Connecting
	case Connecting:
		return next == Connected || next == Disconnected
	case Connected:
		return next == Disconnected
	}
	return false
}

type WhatsAppConnection struct {
	ID                 string           `json:"id"`
	CompanyID          string           `json:"company_id"`
	Name               string           `json:"name"`
	InstanceKey        string           `json:"instance_key"`
	Status             ConnectionStatus `json:"status"`
	IsConnected        bool             `json:"is_connected"`
	LastQRCode         *string          `json:"last_qr_code"`
	LastConnectionDate *time.Time       `json:"last_connection_date"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CompanySettings holds the per-company credentials for the upstream services.
type CompanySettings struct {
	CompanyID        string `json:"company_id"`
	WAPIToken        string `json:"-"`
	AsaasAPIKey      string `json:"-"`
	AsaasEnvironment string `json:"asaas_environment"`
}
