package service

import (
	"context"
	"strings"
	"time"

	"github.com/pagoupix/pagoupix-api/internal/billing"
	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/pagoupix/pagoupix-api/internal/repo"
	"github.com/shopspring/decimal"
)

type NewClient struct {
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Value     decimal.Decimal `json:"value"`
	Frequency string          `json:"frequency"`
	// StartDate is an ISO date; the first due date is one period after it. Defaults to today.
	StartDate string `json:"start_date"`
}

type ClientService struct {
	repo repo.ClientRepository
	now  func() time.Time
}

func NewClientService(r repo.ClientRepository) *ClientService {
	return &ClientService{
		repo: r,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *ClientService) Create(ctx context.Context, in NewClient) (model.Client, error) {
	if strings.TrimSpace(in.CompanyID) == "" {
		return model.Client{}, invalid("company_id é obrigatório")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Client{}, invalid("o nome do cliente é obrigatório")
	}

	phone, err := billing.NormalizePhone(in.Phone)
	if err != nil {
		return model.Client{}, invalidErr(err)
	}

	if in.Value.IsNegative() {
		return model.Client{}, invalid("o valor da cobrança não pode ser negativo")
	}

	freq := strings.TrimSpace(in.Frequency)
	if freq == "" {
		freq = string(billing.Monthly)
	}
	if !billing.IsKnownFrequency(freq) {
		return model.Client{}, invalid("frequência de cobrança inválida")
	}

	start := s.now()
	if in.StartDate != "" {
		start, err = billing.ParseDate(in.StartDate)
		if err != nil {
			return model.Client{}, invalid("data inicial inválida, use AAAA-MM-DD")
		}
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	c := model.Client{
		CompanyID:   strings.TrimSpace(in.CompanyID),
		Name:        strings.TrimSpace(in.Name),
		Phone:       phone,
		Email:       strings.TrimSpace(in.Email),
		Value:       in.Value,
		Frequency:   freq,
		NextDueDate: billing.NextDueDate(start, freq),
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return model.Client{}, err
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context, companyID string, limit, offset int) ([]model.Client, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, invalid("company_id é obrigatório")
	}
	return s.repo.ListByCompany(ctx, companyID, limit, offset)
}
