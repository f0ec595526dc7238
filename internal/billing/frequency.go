package billing

import "time"

type Frequency string

const (
	Weekly     Frequency = "weekly"
	Biweekly   Frequency = "biweekly"
	Monthly    Frequency = "monthly"
	Quarterly  Frequency = "quarterly"
	Semiannual Frequency = "semiannual"
	Yearly     Frequency = "yearly"
)

const defaultDays = 30

var frequencyDays = map[Frequency]int{
	Weekly:     7,
	Biweekly:   14,
	Monthly:    30,
	Quarterly:  90,
	Semiannual: 180,
	Yearly:     365,
}

// DaysFor returns the due-date offset for a charge frequency.
// Unknown values fall back to monthly.
func DaysFor(freq string) int {
	if d, ok := frequencyDays[Frequency(freq)]; ok {
		return d
	}
	return defaultDays
}

func IsKnownFrequency(freq string) bool {
	_, ok := frequencyDays[Frequency(freq)]
	return ok
}

func NextDueDate(from time.Time, freq string) time.Time {
	return from.AddDate(0, 0, DaysFor(freq))
}
