package application

import (
	"errors"
	"strconv"
	"strings"
	"time"

	commission "trophy-ops/internal/commission/domain"
)

// FilterAll disables a filter axis.
const FilterAll = "all"

// ErrInvalidFilter is returned when year or month is neither numeric nor "all".
var ErrInvalidFilter = errors.New("commission query: year and month must be numeric or \"all\"")

// QueryFilter narrows the ledger by period and free text. Completed records
// filter on their payout period; pending records have no period yet and
// filter on the delivery date instead.
type QueryFilter struct {
	Year   string
	Month  string
	Search string
}

// FilterOrders applies the filter, preserving input order.
func FilterOrders(records []*commission.OrderRecord, filter QueryFilter) ([]*commission.OrderRecord, error) {
	year, filterYear, err := parseAxis(filter.Year)
	if err != nil {
		return nil, err
	}
	month, filterMonth, err := parseAxis(filter.Month)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var matched []*commission.OrderRecord
	for _, record := range records {
		if record == nil {
			continue
		}
		at, err := effectiveDate(record)
		if err != nil {
			return nil, err
		}
		if filterYear && at.Year() != year {
			continue
		}
		if filterMonth && int(at.Month()) != month {
			continue
		}
		if search != "" && !matchesSearch(record, search) {
			continue
		}
		matched = append(matched, record)
	}
	return matched, nil
}

func effectiveDate(record *commission.OrderRecord) (time.Time, error) {
	if record.IsCompleted() {
		return commission.ParsePeriod(record.Period().String())
	}
	return record.DeliveryDate(), nil
}

func parseAxis(value string) (int, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, FilterAll) {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, ErrInvalidFilter
	}
	return parsed, true, nil
}

func matchesSearch(record *commission.OrderRecord, search string) bool {
	for _, field := range []string{record.PONumber(), record.JobName(), record.SalesPersonName()} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
