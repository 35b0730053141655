package application

import (
	"sort"

	commission "trophy-ops/internal/commission/domain"
)

// PeriodGroup is one payout period with its settled lines and totals.
type PeriodGroup struct {
	Period          commission.PeriodKey
	Items           []*commission.OrderRecord
	TotalCommission float64
	TotalSales      float64
}

// GroupCompleted groups completed records by payout period. Groups are
// ordered by period descending; items keep their input order.
func GroupCompleted(records []*commission.OrderRecord) []PeriodGroup {
	index := make(map[commission.PeriodKey]int)
	var groups []PeriodGroup
	for _, record := range records {
		if record == nil || !record.IsCompleted() {
			continue
		}
		key := record.Period()
		at, ok := index[key]
		if !ok {
			at = len(groups)
			index[key] = at
			groups = append(groups, PeriodGroup{Period: key})
		}
		groups[at].Items = append(groups[at].Items, record)
		groups[at].TotalCommission += record.CommissionAmount()
		groups[at].TotalSales += record.TotalSalesAmount()
	}
	// Totals are the plain sum of the items; round once per group so
	// sub-cent item amounts cannot drift the total.
	for i := range groups {
		groups[i].TotalCommission = round2(groups[i].TotalCommission)
		groups[i].TotalSales = round2(groups[i].TotalSales)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Period > groups[j].Period
	})
	return groups
}
