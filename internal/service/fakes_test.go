package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pagoupix/pagoupix-api/internal/client"
	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/pagoupix/pagoupix-api/internal/repo"
)

// fakeConnRepo mirrors the Postgres ordering: ListByStatus returns the least
// recently updated rows first.
type fakeConnRepo struct {
	mu    sync.Mutex
	items map[string]model.WhatsAppConnection
	seq   int
}

func (r *fakeConnRepo) tick() time.Time {
	r.seq++
	return time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC)
}

var _ repo.ConnectionRepository = (*fakeConnRepo)(nil)

func newFakeConnRepo(conns ...model.WhatsAppConnection) *fakeConnRepo {
	r := &fakeConnRepo{items: make(map[string]model.WhatsAppConnection)}
	for _, c := range conns {
		r.items[c.ID] = c
	}
	return r
}

func (r *fakeConnRepo) Create(ctx context.Context, c *model.WhatsAppConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	r.items[c.ID] = *c
	return nil
}

func (r *fakeConnRepo) Get(ctx context.Context, id string) (model.WhatsAppConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return model.WhatsAppConnection{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *fakeConnRepo) ListByCompany(ctx context.Context, companyID string) ([]model.WhatsAppConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.WhatsAppConnection
	for _, c := range r.items {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeConnRepo) ListByStatus(ctx context.Context, status model.ConnectionStatus, limit int) ([]model.WhatsAppConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.WhatsAppConnection
	for _, c := range r.items {
		if c.Status == status {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeConnRepo) SaveQRCode(ctx context.Context, id, qrCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.LastQRCode = &qrCode
	c.UpdatedAt = r.tick()
	r.items[id] = c
	return nil
}

func (r *fakeConnRepo) UpdateStatus(ctx context.Context, id string, status model.ConnectionStatus, connectedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.Status = status
	c.IsConnected = status == model.Connected
	if connectedAt != nil {
		c.LastConnectionDate = connectedAt
	}
	c.UpdatedAt = r.tick()
	r.items[id] = c
	return nil
}

func (r *fakeConnRepo) MarkChecked(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.UpdatedAt = r.tick()
	r.items[id] = c
	return nil
}

type fakeSettings struct {
	tokens map[string]string
	err    error
}

func (f *fakeSettings) GetCompanySettings(ctx context.Context, companyID string) (model.CompanySettings, error) {
	if f.err != nil {
		return model.CompanySettings{}, f.err
	}
	tok, ok := f.tokens[companyID]
	if !ok {
		return model.CompanySettings{}, repo.ErrNotFound
	}
	return model.CompanySettings{CompanyID: companyID, WAPIToken: tok}, nil
}

type sentText struct {
	token, instanceID, phone, message string
}

type fakeGateway struct {
	mu sync.Mutex

	instanceID string
	createErr  error

	qr      client.QRCode
	qrErr   error
	qrCalls int

	connected   bool
	statusErr   error
	statusCalls int
	checked     map[string]int

	sendErr error
	sent    []sentText
}

func (g *fakeGateway) CreateInstance(ctx context.Context, token, name string) (client.Instance, error) {
	if g.createErr != nil {
		return client.Instance{}, g.createErr
	}
	return client.Instance{InstanceID: g.instanceID}, nil
}

func (g *fakeGateway) QRCode(ctx context.Context, token, instanceID string) (client.QRCode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.qrCalls++
	return g.qr, g.qrErr
}

func (g *fakeGateway) Status(ctx context.Context, token, instanceID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls++
	if g.checked == nil {
		g.checked = make(map[string]int)
	}
	g.checked[instanceID]++
	return g.connected, g.statusErr
}

func (g *fakeGateway) SendText(ctx context.Context, token, instanceID, phone, message string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return "", g.sendErr
	}
	g.sent = append(g.sent, sentText{token, instanceID, phone, message})
	return "MSG-" + phone, nil
}
