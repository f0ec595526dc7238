package billing

import (
	"strings"

	"github.com/pagoupix/pagoupix-api/internal/model"
)

var statusLabels = map[model.ChargeStatus]string{
	model.Paid:      "Pago",
	model.Pending:   "Pendente",
	model.Overdue:   "Vencido",
	model.Cancelled: "Cancelado",
}

// RenderTemplate fills the {nome}, {valor}, {vencimento} and {status}
// placeholders of a reminder template with charge data. Unknown placeholders are left as is.
func RenderTemplate(tmpl string, c model.Charge) string {
	due := c.DueDate
	if t, err := ParseDate(c.DueDate); err == nil {
		due = FormatDate(t)
	}

	label := statusLabels[c.Status.Normalize()]

	r := strings.NewReplacer(
		"{nome}", c.Customer,
		"{valor}", FormatBRL(c.Value),
		"{vencimento}", due,
		"{status}", label,
	)
	return r.Replace(tmpl)
}
