package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pagoupix/pagoupix-api/internal/billing"
	"github.com/pagoupix/pagoupix-api/internal/cache"
	"github.com/pagoupix/pagoupix-api/internal/client"
	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/pagoupix/pagoupix-api/internal/repo"
	"golang.org/x/time/rate"
)

// Gateway is the subset of the WhatsApp gateway API the connection manager uses.
type Gateway interface {
	CreateInstance(ctx context.Context, token, name string) (client.Instance, error)
	QRCode(ctx context.Context, token, instanceID string) (client.QRCode, error)
	Status(ctx context.Context, token, instanceID string) (bool, error)
	SendText(ctx context.Context, token, instanceID, phone, message string) (string, error)
}

const pendingBatchSize = 50

type QRResult struct {
	QRCode string                 `json:"qr_code,omitempty"`
	Status model.ConnectionStatus `json:"status"`
	Cached bool                   `json:"cached"`
}

// ConnectionManager drives the disconnected -> connecting -> connected lifecycle
// of WhatsApp gateway instances. Upstream failures are returned as is, without retry.
type ConnectionManager struct {
	conns    repo.ConnectionRepository
	settings repo.SettingsRepository
	gw       Gateway
	qrCache  cache.QRCache

	qrEvery  time.Duration
	limitMu  sync.Mutex
	limiters map[string]*rate.Limiter

	now   func() time.Time
	newID func() string
}

func NewConnectionManager(
	conns repo.ConnectionRepository,
	settings repo.SettingsRepository,
	gw Gateway,
	qrCache cache.QRCache,
	qrEvery time.Duration,
) *ConnectionManager {
	if qrCache == nil {
		qrCache = cache.Noop{}
	}
	return &ConnectionManager{
		conns:    conns,
		settings: settings,
		gw:       gw,
		qrCache:  qrCache,
		qrEvery:  qrEvery,
		limiters: make(map[string]*rate.Limiter),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (m *ConnectionManager) token(ctx context.Context, companyID string) (string, error) {
	s, err := m.settings.GetCompanySettings(ctx, companyID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrMissingToken
	}
	if err != nil {
		return "", fmt.Errorf("load company settings: %w", err)
	}
	if strings.TrimSpace(s.WAPIToken) == "" {
		return "", ErrMissingToken
	}
	return s.WAPIToken, nil
}

func (m *ConnectionManager) limiter(connectionID string) *rate.Limiter {
	m.limitMu.Lock()
	defer m.limitMu.Unlock()

	l, ok := m.limiters[connectionID]
	if !ok {
		limit := rate.Inf
		if m.qrEvery > 0 {
			limit = rate.Every(m.qrEvery)
		}
		l = rate.NewLimiter(limit, 1)
		m.limiters[connectionID] = l
	}
	return l
}

func (m *ConnectionManager) List(ctx context.Context, companyID string) ([]model.WhatsAppConnection, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, invalid("company_id é obrigatório")
	}
	return m.conns.ListByCompany(ctx, companyID)
}

func (m *ConnectionManager) Get(ctx context.Context, id string) (model.WhatsAppConnection, error) {
	return m.conns.Get(ctx, id)
}

// Create registers a named instance with the gateway and stores it as connecting.
func (m *ConnectionManager) Create(ctx context.Context, companyID, name string) (model.WhatsAppConnection, error) {
	companyID = strings.TrimSpace(companyID)
	name = strings.TrimSpace(name)
	if companyID == "" {
		return model.WhatsAppConnection{}, invalid("company_id é obrigatório")
	}
	if name == "" {
		return model.WhatsAppConnection{}, invalid("o nome da conexão é obrigatório")
	}

	token, err := m.token(ctx, companyID)
	if err != nil {
		return model.WhatsAppConnection{}, err
	}

	inst, err := m.gw.CreateInstance(ctx, token, name)
	if err != nil {
		return model.WhatsAppConnection{}, err
	}

	conn := model.WhatsAppConnection{
		ID:          m.newID(),
		CompanyID:   companyID,
		Name:        name,
		InstanceKey: inst.InstanceID,
		Status:      model.Connecting,
	}
	if err := m.conns.Create(ctx, &conn); err != nil {
		return model.WhatsAppConnection{}, fmt.Errorf("save connection: %w", err)
	}

	slog.Info("whatsapp connection created",
		"connection_id", conn.ID, "company_id", companyID, "instance_key", conn.InstanceKey)
	return conn, nil
}

// QRCode returns a pairing QR code for the connection. Calls arriving faster than
// the configured interval are answered from the cache or the last stored code.
func (m *ConnectionManager) QRCode(ctx context.Context, id string) (QRResult, error) {
	conn, err := m.conns.Get(ctx, id)
	if err != nil {
		return QRResult{}, err
	}
	if conn.Status == model.Connected {
		return QRResult{Status: model.Connected}, nil
	}

	if !m.limiter(id).Allow() {
		if qr, ok := m.cachedQR(ctx, conn); ok {
			return QRResult{QRCode: qr, Status: conn.Status, Cached: true}, nil
		}
	}

	token, err := m.token(ctx, conn.CompanyID)
	if err != nil {
		return QRResult{}, err
	}

	qr, err := m.gw.QRCode(ctx, token, conn.InstanceKey)
	if err != nil {
		return QRResult{}, err
	}

	if qr.Connected {
		if err := m.markPaired(ctx, &conn); err != nil {
			return QRResult{}, err
		}
		if err := m.qrCache.Forget(ctx, id); err != nil {
			slog.Warn("qr cache forget failed", "connection_id", id, "err", err)
		}
		return QRResult{Status: model.Connected}, nil
	}

	if err := m.conns.SaveQRCode(ctx, id, qr.QRCode); err != nil {
		return QRResult{}, fmt.Errorf("save qr code: %w", err)
	}
	if err := m.qrCache.StoreQR(ctx, id, qr.QRCode, m.now()); err != nil {
		slog.Warn("qr cache store failed", "connection_id", id, "err", err)
	}

	// A logged-out connection showing a fresh QR code is pairing again.
	if conn.Status == model.Disconnected {
		if err := m.transition(ctx, &conn, model.Connecting); err != nil {
			return QRResult{}, err
		}
	}

	return QRResult{QRCode: qr.QRCode, Status: conn.Status}, nil
}

func (m *ConnectionManager) cachedQR(ctx context.Context, conn model.WhatsAppConnection) (string, bool) {
	qr, found, err := m.qrCache.LoadQR(ctx, conn.ID)
	if err != nil {
		slog.Warn("qr cache load failed", "connection_id", conn.ID, "err", err)
	}
	if found {
		return qr, true
	}
	if conn.LastQRCode != nil && *conn.LastQRCode != "" {
		return *conn.LastQRCode, true
	}
	return "", false
}

// Status asks the gateway whether the instance is paired and records any change.
func (m *ConnectionManager) Status(ctx context.Context, id string) (model.WhatsAppConnection, error) {
	conn, err := m.conns.Get(ctx, id)
	if err != nil {
		return model.WhatsAppConnection{}, err
	}

	token, err := m.token(ctx, conn.CompanyID)
	if err != nil {
		return model.WhatsAppConnection{}, err
	}

	connected, err := m.gw.Status(ctx, token, conn.InstanceKey)
	if err != nil {
		return model.WhatsAppConnection{}, err
	}

	switch {
	case connected && conn.Status != model.Connected:
		err = m.markPaired(ctx, &conn)
	case !connected && conn.Status == model.Connected:
		err = m.transition(ctx, &conn, model.Disconnected)
	}
	if err != nil {
		return model.WhatsAppConnection{}, err
	}
	return conn, nil
}

// markPaired records a pairing reported by the gateway. A disconnected
// connection passes through connecting first.
func (m *ConnectionManager) markPaired(ctx context.Context, conn *model.WhatsAppConnection) error {
	if conn.Status == model.Disconnected {
		if err := m.transition(ctx, conn, model.Connecting); err != nil {
			return err
		}
	}
	return m.transition(ctx, conn, model.Connected)
}

func (m *ConnectionManager) transition(ctx context.Context, conn *model.WhatsAppConnection, next model.ConnectionStatus) error {
	if !conn.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, conn.Status, next)
	}

	var connectedAt *time.Time
	if next == model.Connected {
		t := m.now()
		connectedAt = &t
	}

	if err := m.conns.UpdateStatus(ctx, conn.ID, next, connectedAt); err != nil {
		return fmt.Errorf("update connection status: %w", err)
	}

	slog.Info("whatsapp connection status changed",
		"connection_id", conn.ID, "from", conn.Status, "to", next)

	conn.Status = next
	conn.IsConnected = next == model.Connected
	if connectedAt != nil {
		conn.LastConnectionDate = connectedAt
	}
	return nil
}

// Send delivers a text message through a connected instance.
func (m *ConnectionManager) Send(ctx context.Context, id, phone, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", invalid("a mensagem não pode ser vazia")
	}
	to, err := billing.GatewayPhone(phone)
	if err != nil {
		return "", invalidErr(err)
	}

	conn, err := m.conns.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if conn.Status != model.Connected {
		return "", ErrNotConnected
	}

	token, err := m.token(ctx, conn.CompanyID)
	if err != nil {
		return "", err
	}

	return m.gw.SendText(ctx, token, conn.InstanceKey, to, message)
}

// RefreshPending checks up to pendingBatchSize connections still waiting for
// pairing, least recently checked first. It is the poller's tick; one failing
// connection does not stop the others.
func (m *ConnectionManager) RefreshPending(ctx context.Context) error {
	pending, err := m.conns.ListByStatus(ctx, model.Connecting, pendingBatchSize)
	if err != nil {
		return fmt.Errorf("list pending connections: %w", err)
	}

	var errs []error
	paired := 0
	for _, c := range pending {
		if ctx.Err() != nil {
			break
		}
		updated, err := m.Status(ctx, c.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("connection %s: %w", c.ID, err))
		} else if updated.Status == model.Connected {
			paired++
		}

		// Rows still waiting move to the back of the queue so the next batch
		// reaches connections that have not been checked yet.
		if err := m.conns.MarkChecked(ctx, c.ID); err != nil {
			errs = append(errs, fmt.Errorf("mark connection %s checked: %w", c.ID, err))
		}
	}

	if len(pending) > 0 {
		slog.Info("pending connections refreshed", "checked", len(pending), "paired", paired, "failed", len(errs))
	}
	return errors.Join(errs...)
}

// SenderFor binds the manager to one connection so it can feed a ReminderSender.
func (m *ConnectionManager) SenderFor(connectionID string) SendClient {
	return connectionSender{m: m, id: connectionID}
}

type connectionSender struct {
	m  *ConnectionManager
	id string
}

func (s connectionSender) Send(ctx context.Context, phone, message string) (string, error) {
	return s.m.Send(ctx, s.id, phone, message)
}
