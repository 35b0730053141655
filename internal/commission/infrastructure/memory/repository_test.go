package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	commission "trophy-ops/internal/commission/domain"
)

func newRecord(t *testing.T, po string) *commission.OrderRecord {
	t.Helper()
	order, err := commission.NewOrderRecord(
		commission.NewOrderID(),
		time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		po,
		po+" job",
		"Trophy",
		"Lin Yu-Hsuan",
		5,
		8000,
	)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return order
}

func TestSaveAndFindByID(t *testing.T) {
	repo := NewLedgerRepository()
	order := newRecord(t, "PO-1")

	if err := repo.Save(context.Background(), order); err != nil {
		t.Fatalf("save: %v", err)
	}
	if order.IsNew() {
		t.Fatalf("save must mark the aggregate persisted")
	}

	found, err := repo.FindByID(context.Background(), order.ID())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.PONumber() != "PO-1" {
		t.Fatalf("unexpected record: %+v", found)
	}
}

func TestFindByID_MissingReturnsNil(t *testing.T) {
	repo := NewLedgerRepository()
	found, err := repo.FindByID(context.Background(), "ord-missing")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil for missing record")
	}
}

func TestSave_RejectsNilAndEmptyID(t *testing.T) {
	repo := NewLedgerRepository()
	if err := repo.Save(context.Background(), nil); !errors.Is(err, commission.ErrNilOrder) {
		t.Fatalf("expected ErrNilOrder, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), ""); !errors.Is(err, commission.ErrEmptyOrderID) {
		t.Fatalf("expected ErrEmptyOrderID, got %v", err)
	}
}

func TestList_PreservesInsertionOrder(t *testing.T) {
	repo := NewLedgerRepository()
	pos := []string{"PO-3", "PO-1", "PO-2"}
	for _, po := range pos {
		if err := repo.Save(context.Background(), newRecord(t, po)); err != nil {
			t.Fatalf("save %s: %v", po, err)
		}
	}

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != len(pos) {
		t.Fatalf("expected %d records, got %d", len(pos), len(records))
	}
	for i, po := range pos {
		if records[i].PONumber() != po {
			t.Fatalf("position %d holds %s, want %s", i, records[i].PONumber(), po)
		}
	}
}

func TestSave_OverwriteKeepsPosition(t *testing.T) {
	repo := NewLedgerRepository()
	first := newRecord(t, "PO-1")
	second := newRecord(t, "PO-2")
	for _, order := range []*commission.OrderRecord{first, second} {
		if err := repo.Save(context.Background(), order); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	err := first.Settle(commission.Result{
		RateDisplay:       "12 per unit",
		BaseAmountDisplay: "5 units",
		Amount:            60,
		Description:       "12 × 5 = 60",
	}, time.Date(2025, time.February, 12, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if err := repo.Save(context.Background(), first); err != nil {
		t.Fatalf("resave: %v", err)
	}

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("overwrite must not duplicate, got %d", len(records))
	}
	if records[0].ID() != first.ID() || !records[0].IsCompleted() {
		t.Fatalf("first slot must hold the updated record")
	}
}

func TestListByStatus(t *testing.T) {
	repo := NewLedgerRepository()
	pending := newRecord(t, "PO-1")
	done := newRecord(t, "PO-2")
	err := done.Settle(commission.Result{
		RateDisplay:       "12 per unit",
		BaseAmountDisplay: "5 units",
		Amount:            60,
		Description:       "12 × 5 = 60",
	}, time.Date(2025, time.February, 12, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	for _, order := range []*commission.OrderRecord{pending, done} {
		if err := repo.Save(context.Background(), order); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	completed, err := repo.ListByStatus(context.Background(), commission.StatusCompleted)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(completed) != 1 || completed[0].ID() != done.ID() {
		t.Fatalf("unexpected completed set: %d", len(completed))
	}
}

func TestClonedReads(t *testing.T) {
	repo := NewLedgerRepository()
	order := newRecord(t, "PO-1")
	if err := repo.Save(context.Background(), order); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.FindByID(context.Background(), order.ID())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	err = loaded.Settle(commission.Result{
		RateDisplay:       "12 per unit",
		BaseAmountDisplay: "5 units",
		Amount:            60,
		Description:       "12 × 5 = 60",
	}, time.Date(2025, time.February, 12, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	stored, err := repo.FindByID(context.Background(), order.ID())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.IsCompleted() {
		t.Fatalf("mutating a loaded copy must not touch the stored record")
	}
}
