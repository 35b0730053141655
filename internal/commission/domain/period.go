package commission

import "time"

const periodLayout = "2006-01"

// PeriodKey is the YYYY-MM payout period a completed commission is grouped under.
type PeriodKey string

// NewPeriodKey builds a PeriodKey from the settlement timestamp.
func NewPeriodKey(processedAt time.Time) (PeriodKey, error) {
	if processedAt.IsZero() {
		return "", ErrInvalidProcessedAt
	}
	return PeriodKey(processedAt.UTC().Format(periodLayout)), nil
}

// ParsePeriod parses a YYYY-MM period key into its month start.
func ParsePeriod(value string) (time.Time, error) {
	t, err := time.Parse(periodLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidPeriod
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// String returns the raw string for storage.
func (k PeriodKey) String() string { return string(k) }
