package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pagoupix/pagoupix-api/internal/model"
)

type PostgresSettingsRepo struct {
	db *sql.DB
}

func NewPostgresSettingsRepo(db *sql.DB) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{db: db}
}

func (r *PostgresSettingsRepo) GetCompanySettings(ctx context.Context, companyID string) (model.CompanySettings, error) {
	s := model.CompanySettings{CompanyID: companyID}

	err := r.db.QueryRowContext(ctx, `
		SELECT wapi_token, asaas_api_key, asaas_environment
		FROM company_settings
		WHERE company_id = $1
	`, companyID).Scan(&s.WAPIToken, &s.AsaasAPIKey, &s.AsaasEnvironment)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CompanySettings{}, ErrNotFound
	}
	if err != nil {
		return model.CompanySettings{}, err
	}
	return s, nil
}
