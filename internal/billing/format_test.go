package billing

import (
	"testing"

	"github.com/pagoupix/pagoupix-api/internal/model"
	"github.com/shopspring/decimal"
)

func TestFormatBRL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"9.9", "R$ 9,90"},
		{"123.456", "R$ 123,46"},
		{"1234.56", "R$ 1.234,56"},
		{"1234567.8", "R$ 1.234.567,80"},
		{"-50", "-R$ 50,00"},
	}

	for _, tc := range cases {
		got := FormatBRL(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Fatalf("FormatBRL(%s): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestFormatAndParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-03-05")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if got := FormatDate(d); got != "05/03/2026" {
		t.Fatalf("expected 05/03/2026, got %q", got)
	}
	if got := FormatISODate(d); got != "2026-03-05" {
		t.Fatalf("expected 2026-03-05, got %q", got)
	}

	if _, err := ParseDate("05/03/2026"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}

}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	c := model.Charge{
		Customer: "Maria",
		Value:    decimal.RequireFromString("1500"),
		DueDate:  "2026-10-20",
		Status:   model.Overdue,
	}

	got := RenderTemplate("Olá {nome}, sua cobrança de {valor} venceu em {vencimento} ({status}). {link}", c)
	want := "Olá Maria, sua cobrança de R$ 1.500,00 venceu em 20/10/2026 (Vencido). {link}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderTemplate_UnparseableDueDateKeptVerbatim(t *testing.T) {
	t.Parallel()

	c := model.Charge{Customer: "João", DueDate: "amanhã", Status: model.Pending}
	got := RenderTemplate("{vencimento} {status}", c)
	if got != "amanhã Pendente" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderTemplate_ProviderStatuses(t *testing.T) {
	t.Parallel()

	cases := map[model.ChargeStatus]string{
		"RECEIVED":         "Pago",
		"RECEIVED_IN_CASH": "Pago",
		"OVERDUE":          "Vencido",
		"REFUNDED":         "Cancelado",
		"PENDING":          "Pendente",
		"":                 "Pendente",
		model.Paid:         "Pago",
	}

	for in, want := range cases {
		got := RenderTemplate("{status}", model.Charge{Status: in})
		if got != want {
			t.Fatalf("status %q: expected %q, got %q", in, want, got)
		}
	}
}
