package application

import (
	"context"
	"testing"
	"time"

	commission "trophy-ops/internal/commission/domain"
)

func pendingRecord(t *testing.T, po string, delivery time.Time, totalSales float64) *commission.OrderRecord {
	t.Helper()
	order, err := commission.NewOrderRecord(
		commission.NewOrderID(),
		delivery,
		po,
		po+" job",
		"Medal",
		"Lin Yu-Hsuan",
		10,
		totalSales,
	)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return order
}

func settledRecord(t *testing.T, po string, processedAt time.Time, amount, totalSales float64) *commission.OrderRecord {
	t.Helper()
	order := pendingRecord(t, po, time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC), totalSales)
	err := order.Settle(commission.Result{
		RateDisplay:       "5 per unit",
		BaseAmountDisplay: "10 units",
		Amount:            amount,
		Description:       "5 × 10 = 50",
	}, processedAt)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	return order
}

func TestGroupCompleted_SkipsPending(t *testing.T) {
	records := []*commission.OrderRecord{
		pendingRecord(t, "PO-1", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 1000),
		settledRecord(t, "PO-2", time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC), 50, 1000),
	}
	groups := GroupCompleted(records)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Items) != 1 || groups[0].Items[0].PONumber() != "PO-2" {
		t.Fatalf("pending record leaked into group: %+v", groups[0].Items)
	}
}

func TestGroupCompleted_DescendingPeriods(t *testing.T) {
	records := []*commission.OrderRecord{
		settledRecord(t, "PO-1", time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC), 30, 500),
		settledRecord(t, "PO-2", time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC), 40, 700),
		settledRecord(t, "PO-3", time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC), 20, 300),
	}
	groups := GroupCompleted(records)
	want := []string{"2025-01", "2024-12", "2024-11"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, period := range want {
		if groups[i].Period.String() != period {
			t.Fatalf("group %d period %s, want %s", i, groups[i].Period, period)
		}
	}
}

func TestGroupCompleted_TotalsAndItemOrder(t *testing.T) {
	january := time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)
	records := []*commission.OrderRecord{
		settledRecord(t, "PO-1", january, 12.345, 1000.5),
		settledRecord(t, "PO-2", january, 7.655, 499.5),
	}
	groups := GroupCompleted(records)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	group := groups[0]
	if group.TotalCommission != 20 {
		t.Fatalf("total commission %v, want 20", group.TotalCommission)
	}
	if group.TotalSales != 1500 {
		t.Fatalf("total sales %v, want 1500", group.TotalSales)
	}
	if group.Items[0].PONumber() != "PO-1" || group.Items[1].PONumber() != "PO-2" {
		t.Fatalf("items lost input order")
	}
}

func TestGroupCompleted_SubCentAmountsSumExactly(t *testing.T) {
	january := time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)
	records := []*commission.OrderRecord{
		settledRecord(t, "PO-1", january, 12.345, 1000),
		settledRecord(t, "PO-2", january, 7.655, 1000),
	}
	groups := GroupCompleted(records)
	// Rounding applies once per group, never per item; stepwise rounding
	// would report 20.01 here.
	if groups[0].TotalCommission != 20 {
		t.Fatalf("total commission %v, want 20", groups[0].TotalCommission)
	}
}

func TestGroupCompleted_TotalsMatchLedgerSum(t *testing.T) {
	clock := fixedClock{at: time.Date(2025, time.January, 8, 14, 0, 0, 0, time.UTC)}
	ledger, settler := newServices(t, clock)
	medal := addOrder(t, ledger, "Medal", 50, 25000)
	parts := addOrder(t, ledger, "Spare Parts", 1, 38000)

	_, failures := settler.SettleMany(context.Background(), []string{medal.ID(), parts.ID()})
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}

	records, err := ledger.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	groups := GroupCompleted(records)
	if len(groups) != 1 || groups[0].Period.String() != "2025-01" {
		t.Fatalf("expected one 2025-01 group, got %+v", groups)
	}

	var grouped, direct float64
	for _, group := range groups {
		grouped += group.TotalCommission
	}
	for _, record := range records {
		if record.IsCompleted() {
			direct += record.CommissionAmount()
		}
	}
	if grouped != direct {
		t.Fatalf("group totals %v diverge from ledger sum %v", grouped, direct)
	}
	// 5 per unit × 50 plus 5% of 38000.
	if grouped != 2150 {
		t.Fatalf("grouped sum %v, want 2150", grouped)
	}
}
