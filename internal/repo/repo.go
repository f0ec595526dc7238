package repo

import (
	"context"
	"errors"
	"time"

	"github.com/pagoupix/pagoupix-api/internal/model"
)

var ErrNotFound = errors.New("not found")

type ConnectionRepository interface {
	Create(ctx context.Context, c *model.WhatsAppConnection) error
	Get(ctx context.Context, id string) (model.WhatsAppConnection, error)
	ListByCompany(ctx context.Context, companyID string) ([]model.WhatsAppConnection, error)
	ListByStatus(ctx context.Context, status model.ConnectionStatus, limit int) ([]model.WhatsAppConnection, error)
	SaveQRCode(ctx context.Context, id, qrCode string) error
	UpdateStatus(ctx context.Context, id string, status model.ConnectionStatus, connectedAt *time.Time) error
	// MarkChecked stamps updated_at so ListByStatus returns the row after unchecked ones.
	MarkChecked(ctx context.Context, id string) error
}

type SettingsRepository interface {
	GetCompanySettings(ctx context.Context, companyID string) (model.CompanySettings, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]model.Client, error)
}
