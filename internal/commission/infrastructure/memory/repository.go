package memory

import (
	"context"
	"sync"

	commission "trophy-ops/internal/commission/domain"
)

// LedgerRepository is an in-memory ledger for a single operator session.
// List order follows insertion order, which the period views rely on.
type LedgerRepository struct {
	mu    sync.RWMutex
	data  map[string]*commission.OrderRecord
	order []string
}

// NewLedgerRepository constructs a repository.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{data: make(map[string]*commission.OrderRecord)}
}

// FindByID loads an order record.
func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*commission.OrderRecord, error) {
	_ = ctx
	if id == "" {
		return nil, commission.ErrEmptyOrderID
	}

	r.mu.RLock()
	order := r.data[id]
	r.mu.RUnlock()
	if order == nil {
		return nil, nil
	}
	return order.Clone(), nil
}

// Save persists an order record (overwrites existing by id).
func (r *LedgerRepository) Save(ctx context.Context, order *commission.OrderRecord) error {
	_ = ctx
	if order == nil {
		return commission.ErrNilOrder
	}
	id := order.ID()
	if id == "" {
		return commission.ErrEmptyOrderID
	}

	copy := order.Clone()
	r.mu.Lock()
	if _, exists := r.data[id]; !exists {
		r.order = append(r.order, id)
	}
	r.data[id] = copy
	r.mu.Unlock()

	order.MarkPersisted()
	return nil
}

// List returns all records in insertion order.
func (r *LedgerRepository) List(ctx context.Context) ([]*commission.OrderRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*commission.OrderRecord, 0, len(r.order))
	for _, id := range r.order {
		if order := r.data[id]; order != nil {
			records = append(records, order.Clone())
		}
	}
	return records, nil
}

// ListByStatus returns records with the given status in insertion order.
func (r *LedgerRepository) ListByStatus(ctx context.Context, status string) ([]*commission.OrderRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*commission.OrderRecord
	for _, id := range r.order {
		order := r.data[id]
		if order != nil && order.Status() == status {
			records = append(records, order.Clone())
		}
	}
	return records, nil
}
