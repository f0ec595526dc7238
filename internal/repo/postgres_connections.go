package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pagoupix/pagoupix-api/internal/model"
)

const connectionColumns = `id, company_id, name, instance_key, status, is_connected,
	last_qr_code, last_connection_date, created_at, updated_at`

type PostgresConnectionRepo struct {
	db *sql.DB
}

func NewPostgresConnectionRepo(db *sql.DB) *PostgresConnectionRepo {
	return &PostgresConnectionRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (model.WhatsAppConnection, error) {
	var c model.WhatsAppConnection
	var status string
	var qr sql.NullString
	var lastConn sql.NullTime

	if err := row.Scan(
		&c.ID,
		&c.CompanyID,
		&c.Name,
		&c.InstanceKey,
		&status,
		&c.IsConnected,
		&qr,
		&lastConn,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return model.WhatsAppConnection{}, err
	}

	c.Status = model.ConnectionStatus(status)
	if qr.Valid {
		s := qr.String
		c.LastQRCode = &s
	}
	if lastConn.Valid {
		t := lastConn.Time
		c.LastConnectionDate = &t
	}
	return c, nil
}

func (r *PostgresConnectionRepo) Create(ctx context.Context, c *model.WhatsAppConnection) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO whatsapp_connections
			(id, company_id, name, instance_key, status, is_connected, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.CompanyID, c.Name, c.InstanceKey, string(c.Status), c.IsConnected, now, now)
	return err
}

func (r *PostgresConnectionRepo) Get(ctx context.Context, id string) (model.WhatsAppConnection, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+connectionColumns+`
		FROM whatsapp_connections
		WHERE id = $1
	`, id)

	c, err := scanConnection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WhatsAppConnection{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresConnectionRepo) ListByCompany(ctx context.Context, companyID string) ([]model.WhatsAppConnection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+connectionColumns+`
		FROM whatsapp_connections
		WHERE company_id = $1
		ORDER BY created_at DESC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConnections(rows)
}

func (r *PostgresConnectionRepo) ListByStatus(ctx context.Context, status model.ConnectionStatus, limit int) ([]model.WhatsAppConnection, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+connectionColumns+`
		FROM whatsapp_connections
		WHERE status = $1
		ORDER BY updated_at ASC
		LIMIT $2
	`, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConnections(rows)
}

func collectConnections(rows *sql.Rows) ([]model.WhatsAppConnection, error) {
	var out []model.WhatsAppConnection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresConnectionRepo) SaveQRCode(ctx context.Context, id, qrCode string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE whatsapp_connections
		SET last_qr_code = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, qrCode)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// UpdateStatus stores a new status. connectedAt is only written when non-nil so a
// disconnect keeps the date of the last successful pairing.
func (r *PostgresConnectionRepo) UpdateStatus(ctx context.Context, id string, status model.ConnectionStatus, connectedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE whatsapp_connections
		SET status = $2,
		    is_connected = $3,
		    last_connection_date = COALESCE($4, last_connection_date),
		    updated_at = now()
		WHERE id = $1
	`, id, string(status), status == model.Connected, connectedAt)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PostgresConnectionRepo) MarkChecked(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE whatsapp_connections
		SET updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
