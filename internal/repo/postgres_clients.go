package repo

import (
	"context"
	"database/sql"

	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/shopspring/decimal"
)

type PostgresClientRepo struct {
	db *sql.DB
}

func NewPostgresClientRepo(db *sql.DB) *PostgresClientRepo {
	return &PostgresClientRepo{db: db}
}

func (r *PostgresClientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO clients (company_id, name, phone, email, value, frequency, next_due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		c.CompanyID,
		c.Name,
		c.Phone,
		c.Email,
		c.Value.StringFixed(2),
		c.Frequency,
		c.NextDueDate,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *PostgresClientRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]model.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, name, phone, email, value::text, frequency, next_due_date, created_at
		FROM clients
		WHERE company_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		var c model.Client
		var value string

		if err := rows.Scan(
			&c.ID,
			&c.CompanyID,
			&c.Name,
			&c.Phone,
			&c.Email,
			&value,
			&c.Frequency,
			&c.NextDueDate,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}

		c.Value, err = decimal.NewFromString(value)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
