package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ChargeStatus string

const (
	Paid      ChargeStatus = "paid"
	Pending   ChargeStatus = "pending"
	Overdue   ChargeStatus = "overdue"
	Cancelled ChargeStatus = "cancelled"
)

type Charge struct {
	Customer string          `json:"customer"`
	Value    decimal.Decimal `json:"value"`
	DueDate  string          `json:"dueDate"`
	Status   ChargeStatus    `json:"status"`
}

// StatusFromAsaas maps a payments provider status onto the dashboard's four states.
func StatusFromAsaas(s string) ChargeStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RECEIVED", "CONFIRMED", "RECEIVED_IN_CASH":
		return Paid
	case "OVERDUE":
		return Overdue
	case "DELETED", "REFUNDED", "REFUND_REQUESTED", "CHARGEBACK_REQUESTED":
		return Cancelled
	default:
		return Pending
	}
}

// Normalize returns s when it is already one of the dashboard states and
// otherwise maps it as a payments provider status.
func (s ChargeStatus) Normalize() ChargeStatus {
	switch s {
	case Paid, Pending, Overdue, Cancelled:
		return s
	}
	return StatusFromAsaas(string(s))
}

type Client struct {
	ID          int64           `json:"id"`
	CompanyID   string          `json:"company_id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Frequency   string          `json:"frequency"`
	NextDueDate time.Time       `json:"next_due_date"`
	CreatedAt   time.Time       `json:"created_at"`
}
