package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout    = "02/01/2006"
	isoDateLayout = "2006-01-02"
)

// FormatBRL renders a value as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	neg := v.IsNegative()
	fixed := v.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("R$ ")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate reads the ISO dates used by the payments provider.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(isoDateLayout, strings.TrimSpace(s))
}

// FormatISODate renders a date for the payments provider.
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}
